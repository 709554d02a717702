package inference

import (
	"fmt"
	"strings"

	"mercator-hq/ganymede/pkg/retrievers"
)

// DefaultRefusal is returned when a request is refused without a custom message.
const DefaultRefusal = "I cannot assist with that type of request."

// BuildMessages assembles the message list sent to the model. Retrieved
// context is appended to the system prompt. History turns with roles other
// than user or assistant, or without content, are dropped.
func BuildMessages(systemPrompt, context string, history []Message, message string) []Message {
	system := systemPrompt
	if context != "" {
		if system != "" {
			system += "\n\n"
		}
		system += "Context information:\n" + context
	}

	msgs := make([]Message, 0, len(history)+2)
	if system != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: system})
	}
	for _, h := range history {
		role := strings.ToLower(h.Role)
		if h.Content == "" || (role != RoleUser && role != RoleAssistant) {
			continue
		}
		msgs = append(msgs, Message{Role: role, Content: h.Content})
	}
	return append(msgs, Message{Role: RoleUser, Content: message})
}

// FormatContext renders retrieved documents as a numbered block.
func FormatContext(docs []retrievers.Document) string {
	if len(docs) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, d := range docs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[%d] %s", i+1, d.Content)
	}
	return sb.String()
}

// EstimateTokens approximates token usage at about four characters per token,
// for backends that do not report usage.
func EstimateTokens(prompt, response string) int {
	return len(prompt)/4 + len(response)/4
}

// RefusalResponse builds the response returned for a refused request. It
// carries no sources and no token usage.
func RefusalResponse(message string) *ChatResponse {
	if message == "" {
		message = DefaultRefusal
	}
	return &ChatResponse{Response: message, Sources: []retrievers.Document{}}
}

func promptText(msgs []Message) string {
	var sb strings.Builder
	for _, m := range msgs {
		sb.WriteString(m.Content)
		sb.WriteByte('\n')
	}
	return sb.String()
}
