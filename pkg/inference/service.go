package inference

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"mercator-hq/ganymede/pkg/retrievers"
)

// ErrEmptyMessage is returned for a chat request without a message.
var ErrEmptyMessage = errors.New("message is required")

// ContextProvider retrieves documents by adapter name. It never fails; an
// empty result means no context.
type ContextProvider interface {
	GetRelevantContext(ctx context.Context, query, adapterName string, opts retrievers.QueryOptions) []retrievers.Document
}

// ServiceConfig configures a Service.
type ServiceConfig struct {
	// SystemPrompt is used when a request carries none.
	SystemPrompt string

	// RefusalMessage is returned in place of a content-filtered completion.
	// Empty uses DefaultRefusal.
	RefusalMessage string

	// InferenceOnly disables retrieval entirely.
	InferenceOnly bool

	// Verbose logs retrieval and prompt details at info level.
	Verbose bool

	Logger *slog.Logger
}

// Service answers chat requests.
type Service struct {
	client   Client
	contexts ContextProvider
	cfg      ServiceConfig
	logger   *slog.Logger
}

// NewService creates a service. contexts may be nil, which behaves like
// inference-only mode.
func NewService(client Client, contexts ContextProvider, cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:   client,
		contexts: contexts,
		cfg:      cfg,
		logger:   logger.With("component", "inference"),
	}
}

// Chat retrieves context for the request's adapter, asks the model and
// returns its answer with the documents used.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if req.Message == "" {
		return nil, ErrEmptyMessage
	}
	start := time.Now()

	docs := s.retrieve(ctx, req)

	system := req.SystemPrompt
	if system == "" {
		system = s.cfg.SystemPrompt
	}
	msgs := BuildMessages(system, FormatContext(docs), req.History, req.Message)

	completion, err := s.client.Complete(ctx, msgs)
	if err != nil {
		return nil, err
	}
	if completion.FinishReason == FinishReasonContentFilter {
		s.logger.Warn("completion withheld by content filter",
			"adapter", req.AdapterName,
			"model", completion.Model,
		)
		return RefusalResponse(s.cfg.RefusalMessage), nil
	}

	tokens := completion.TotalTokens
	if tokens == 0 {
		tokens = EstimateTokens(promptText(msgs), completion.Content)
	}
	elapsed := time.Since(start)

	s.log("chat completed",
		"adapter", req.AdapterName,
		"sources", len(docs),
		"tokens", tokens,
		"duration", elapsed,
	)

	if docs == nil {
		docs = []retrievers.Document{}
	}
	return &ChatResponse{
		Response:       completion.Content,
		Sources:        docs,
		Tokens:         tokens,
		ProcessingTime: elapsed.Seconds(),
	}, nil
}

func (s *Service) retrieve(ctx context.Context, req ChatRequest) []retrievers.Document {
	if s.cfg.InferenceOnly || s.contexts == nil || req.AdapterName == "" {
		return nil
	}

	s.log("retrieving context", "adapter", req.AdapterName)
	docs := s.contexts.GetRelevantContext(ctx, req.Message, req.AdapterName, retrievers.QueryOptions{
		APIKey: req.APIKey,
	})
	s.log("retrieved documents", "adapter", req.AdapterName, "documents", len(docs))
	return docs
}

// log writes at info level in verbose mode and debug level otherwise.
func (s *Service) log(msg string, args ...any) {
	if s.cfg.Verbose {
		s.logger.Info(msg, args...)
		return
	}
	s.logger.Debug(msg, args...)
}
