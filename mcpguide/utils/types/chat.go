package types

import "encoding/json"

// ChatProxyRequest is the body accepted by POST /api/mcp-chat. Messages stays raw
// so the handler can tell a missing field from a non-array one.
type ChatProxyRequest struct {
	Messages json.RawMessage `json:"messages"`
}

type ChatProxyResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// StreamFrame is one server-to-client frame on the streaming chat socket.
type StreamFrame struct {
	Type    string `json:"type"` // "chunk", "done" or "error"
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

const (
	FrameChunk = "chunk"
	FrameDone  = "done"
	FrameError = "error"
)
