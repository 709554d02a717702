package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/retrievers/builtin"
	"mercator-hq/ganymede/pkg/retrievers/domain"
	"mercator-hq/ganymede/pkg/retrievers/vector"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load the configuration with environment overrides applied, run field
validation, and check that every adapter names a registered retriever
implementation and domain adapter.

Examples:
  ganymede validate --config /etc/ganymede/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if problems := checkAdapterKinds(cfg); len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", p)
		}
		return fmt.Errorf("%d adapter(s) reference unknown implementations", len(problems))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Configuration valid (%s)\n", cfgFile)
	if cfg.General.InferenceOnly {
		fmt.Fprintln(out, "  mode: inference only")
	} else {
		fmt.Fprintf(out, "  adapters: %d\n", len(config.AdapterNames(cfg)))
	}
	fmt.Fprintf(out, "  inline api keys: %d\n", len(cfg.APIKeys.Keys))
	return nil
}

// checkAdapterKinds reports adapters whose implementation or domain adapter
// is not registered. Nothing is constructed.
func checkAdapterKinds(cfg *config.Config) []string {
	impls := builtin.NewRegistry(vector.OpenAIEmbedderFactory)
	domains := domain.NewDefaultRegistry()

	var problems []string
	for _, a := range cfg.Adapters {
		if a.Name == "" {
			continue
		}
		if _, err := impls.Lookup(a.Implementation); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", a.Name, err))
		}
		if !domains.Has(domain.KindRetriever, a.Datasource, a.Adapter) {
			problems = append(problems, fmt.Sprintf("%s: unknown domain adapter %q for datasource %q", a.Name, a.Adapter, a.Datasource))
		}
	}
	return problems
}
