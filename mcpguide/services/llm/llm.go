package llm

import (
	"context"
	"fmt"
)

// Fixed generation parameters. They are not user configurable.
const (
	Model       = "gpt-4o-mini"
	MaxTokens   = 1000
	Temperature = 0.7
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream,omitempty"`
}

// NewChatRequest prepends the system preamble to messages and applies the fixed
// generation parameters. messages is copied, never modified.
func NewChatRequest(preamble string, messages []Message) ChatRequest {
	all := make([]Message, 0, len(messages)+1)
	all = append(all, Message{Role: RoleSystem, Content: preamble})
	all = append(all, messages...)
	return ChatRequest{
		Model:       Model,
		Messages:    all,
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	}
}

// Completer is a chat completion provider.
//
// Run returns the first choice's content, or "" when the provider answered
// successfully without one. RunStream yields content deltas on the returned
// Stream until the provider finishes or ctx is done.
type Completer interface {
	Run(ctx context.Context, req ChatRequest) (string, error)
	RunStream(ctx context.Context, req ChatRequest) (*Stream, error)
}

// Stream carries content deltas. Read Chunks until it is closed, then check
// Err: nil only when the provider finished the answer.
type Stream struct {
	ch  chan string
	err error
}

// NewStream returns an open stream whose channel holds up to buffer chunks.
func NewStream(buffer int) *Stream {
	return &Stream{ch: make(chan string, buffer)}
}

func (s *Stream) Chunks() <-chan string {
	return s.ch
}

// Send delivers one chunk. It reports false when ctx ended first.
func (s *Stream) Send(ctx context.Context, chunk string) bool {
	select {
	case s.ch <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}

// Close records how the stream ended and closes the channel. Call it once.
func (s *Stream) Close(err error) {
	s.err = err
	close(s.ch)
}

// Err is valid once Chunks has been drained.
func (s *Stream) Err() error {
	return s.err
}

// UpstreamError is a non-2xx answer from the provider. Body is kept for
// server-side logs only.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion provider returned status %d", e.StatusCode)
}
