package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"mcpguide/mcpguide/prompts"
	"mcpguide/mcpguide/services/llm"
	"mcpguide/mcpguide/utils/jsonutils"
	"mcpguide/mcpguide/utils/logging"

	"go.uber.org/zap"
)

// Messages returned to callers. Provider detail never appears in them.
const (
	MsgMethodNotAllowed = "Method not allowed"
	MsgNotConfigured    = "Completion provider API key not configured"
	MsgInvalidMessages  = "Messages array is required"
	MsgUpstreamFailed   = "Failed to get response from AI"
	MsgInternal         = "Internal server error"

	// FallbackReply is used when the provider answers without any text.
	FallbackReply = "Sorry, I could not generate a response."
)

var (
	ErrNotConfigured   = errors.New("completion provider not configured")
	ErrInvalidMessages = errors.New("messages must be an array of chat messages")
)

type ChatController struct {
	completer  llm.Completer
	configured bool
	preamble   string
}

// NewChatController returns a controller that forwards to completer. When
// configured is false every call fails with ErrNotConfigured before reaching
// the provider.
func NewChatController(completer llm.Completer, configured bool) *ChatController {
	return &ChatController{
		completer:  completer,
		configured: configured,
		preamble:   prompts.Preamble,
	}
}

func (c *ChatController) Configured() bool {
	return c.configured
}

// ParseMessages decodes the raw "messages" field. Missing, null and non-array
// values, and arrays holding anything but message objects, are rejected.
func ParseMessages(raw json.RawMessage) ([]llm.Message, error) {
	if !jsonutils.IsArray(raw) {
		return nil, ErrInvalidMessages
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, ErrInvalidMessages
	}
	messages := make([]llm.Message, 0, len(items))
	for _, item := range items {
		// json.Unmarshal accepts null into a struct; a null entry is not a message
		if string(item) == "null" {
			return nil, ErrInvalidMessages
		}
		var m llm.Message
		if err := json.Unmarshal(item, &m); err != nil {
			return nil, ErrInvalidMessages
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// Reply forwards the conversation, preamble first, and returns the assistant
// text. Upstream failures come back as *llm.UpstreamError after their body
// has been logged.
func (c *ChatController) Reply(ctx context.Context, messages []llm.Message) (string, error) {
	defer logging.LogDuration(ctx, "chat_controller_reply")()

	if !c.configured {
		return "", ErrNotConfigured
	}

	content, err := c.completer.Run(ctx, llm.NewChatRequest(c.preamble, messages))
	if err != nil {
		c.logFailure(ctx, "chat completion failed", err)
		return "", err
	}
	if content == "" {
		return FallbackReply, nil
	}
	return content, nil
}

// Stream is the streaming counterpart of Reply. The caller drains the stream
// and then reports its outcome with StreamEnded.
func (c *ChatController) Stream(ctx context.Context, messages []llm.Message) (*llm.Stream, error) {
	if !c.configured {
		return nil, ErrNotConfigured
	}
	stream, err := c.completer.RunStream(ctx, llm.NewChatRequest(c.preamble, messages))
	if err != nil {
		c.logFailure(ctx, "chat stream failed", err)
		return nil, err
	}
	return stream, nil
}

// StreamEnded checks a drained stream. A stream that stopped before the
// provider finished is logged and returned as an error; a clean stream that
// produced no text (sent == 0) yields FallbackReply as its only chunk.
func (c *ChatController) StreamEnded(ctx context.Context, stream *llm.Stream, sent int) (string, error) {
	if err := stream.Err(); err != nil {
		c.logFailure(ctx, "chat stream ended early", err)
		return "", err
	}
	if sent == 0 {
		return FallbackReply, nil
	}
	return "", nil
}

func (c *ChatController) logFailure(ctx context.Context, msg string, err error) {
	fields := []zap.Field{zap.String("trace_id", logging.TraceID(ctx))}
	var upErr *llm.UpstreamError
	if errors.As(err, &upErr) {
		fields = append(fields,
			zap.Int("status", upErr.StatusCode),
			zap.String("provider_error", jsonutils.Compact(upErr.Body)),
		)
	} else {
		fields = append(fields, zap.Error(err))
	}
	logging.ErrorLogger.Error(msg, fields...)
}

// StatusFor maps a Reply/Stream error to the status and generic message
// returned to the caller.
func StatusFor(err error) (int, string) {
	var upErr *llm.UpstreamError
	switch {
	case errors.Is(err, ErrNotConfigured):
		return http.StatusInternalServerError, MsgNotConfigured
	case errors.Is(err, ErrInvalidMessages):
		return http.StatusBadRequest, MsgInvalidMessages
	case errors.As(err, &upErr):
		return upErr.StatusCode, MsgUpstreamFailed
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}
