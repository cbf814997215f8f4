// Package ai abstracts the generative text service used for chat replies
// and clinical summaries.
package ai

import "context"

// Message is a single chat turn. Role must be one of: "system", "user", or
// "assistant".
type Message struct {
	Role    string
	Content string
}

// Image is an inline image payload accompanying the latest user turn.
type Image struct {
	Data     []byte
	MimeType string
}

// Client defines the calls the domain services need. Chat receives the full
// ordered message history (system framing first, then every stored turn);
// Complete is a one-shot prompt for summary generation.
type Client interface {
	Chat(ctx context.Context, messages []Message, image *Image) (string, error)
	Complete(ctx context.Context, prompt string) (string, error)
}
