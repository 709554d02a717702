// Package inference turns a chat message into a model completion, optionally
// grounded in documents retrieved through a ContextProvider.
//
// The Client interface abstracts the model backend. OpenAIClient talks to any
// OpenAI-compatible chat completions endpoint (OpenAI, Ollama, vLLM,
// LM Studio) through github.com/sashabaranov/go-openai.
//
// Service ties the pieces together:
//
//	svc := inference.NewService(client, proxy, inference.ServiceConfig{...})
//	resp, err := svc.Chat(ctx, inference.ChatRequest{
//		Message:     "How do I reset my password?",
//		AdapterName: "support-faq",
//	})
package inference
