package inference

import "mercator-hq/ganymede/pkg/retrievers"

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FinishReasonContentFilter is the finish reason of a completion the
// provider withheld or cut short by its content filter.
const FinishReasonContentFilter = "content_filter"

// Completion is a model response.
type Completion struct {
	Content      string
	Model        string
	FinishReason string

	// TotalTokens is the provider reported usage, zero if not reported.
	TotalTokens int
}

// ChatRequest is a single chat call.
type ChatRequest struct {
	// Message is the user's message.
	Message string

	// AdapterName selects the retriever adapter. Empty disables retrieval.
	AdapterName string

	// SystemPrompt overrides the configured system prompt when set.
	SystemPrompt string

	// History holds previous turns, oldest first.
	History []Message

	// APIKey is the caller's key, forwarded to retrieval.
	APIKey string
}

// ChatResponse is the result of a chat call.
type ChatResponse struct {
	Response       string                `json:"response"`
	Sources        []retrievers.Document `json:"sources"`
	Tokens         int                   `json:"tokens"`
	ProcessingTime float64               `json:"processing_time"`
}
