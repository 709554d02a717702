package adaptermanager

import (
	"reflect"
	"testing"

	"mercator-hq/ganymede/pkg/config"
)

func TestLoadConfigStore(t *testing.T) {
	store := LoadConfigStore([]config.AdapterConfig{
		{Name: "faq", Implementation: "relational.sqlite"},
		{Implementation: "vector.sqlite"},
		{Name: "docs", Implementation: "vector.sqlite"},
		{Name: "faq", Implementation: "vector.sqlite"},
	}, nil)

	if store.Len() != 2 {
		t.Fatalf("expected 2 adapters, got %d", store.Len())
	}
	if got, want := store.Names(), []string{"docs", "faq"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	faq, ok := store.Get("faq")
	if !ok {
		t.Fatal("expected faq to be present")
	}
	if faq.Implementation != "vector.sqlite" {
		t.Errorf("expected later duplicate to win, got %q", faq.Implementation)
	}
	if _, ok := store.Get("missing"); ok {
		t.Error("unexpected configuration for missing adapter")
	}

	names := store.Names()
	names[0] = "mutated"
	if store.Names()[0] != "docs" {
		t.Error("Names() must return a copy")
	}
}
