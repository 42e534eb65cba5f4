package chatclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"mcpguide/mcpguide/services/llm"
	"mcpguide/mcpguide/site"
	httputils "mcpguide/mcpguide/utils/http"
	"mcpguide/mcpguide/utils/logging"

	"go.uber.org/zap"
)

const maxResponseBody = 1 << 20

var (
	ErrSendInProgress = errors.New("a message is already being sent")
	ErrEmptyMessage   = errors.New("message is empty")
	ErrMalformedReply = errors.New("response has no message")
)

// StatusError is a non-2xx answer from the chat endpoint.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("chat endpoint returned %d", e.StatusCode)
	}
	return fmt.Sprintf("chat endpoint returned %d: %s", e.StatusCode, e.Message)
}

// Result is the outcome of one send. Reply is always the assistant turn that
// was appended; Err says why the send failed, nil on success.
type Result struct {
	Reply string
	Err   error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Session is one conversation with the chat endpoint. It keeps the whole
// transcript and posts all of it on every send.
type Session struct {
	endpoint string
	client   *http.Client

	mu         sync.Mutex
	inFlight   bool
	transcript []llm.Message
}

// NewSession starts a transcript with the greeting. A nil client uses
// http.DefaultClient.
func NewSession(endpoint string, client *http.Client) *Session {
	return &Session{
		endpoint:   endpoint,
		client:     client,
		transcript: []llm.Message{{Role: llm.RoleAssistant, Content: site.Greeting()}},
	}
}

// Transcript returns a copy of the conversation so far.
func (s *Session) Transcript() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.Message(nil), s.transcript...)
}

// Busy reports whether a send is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Send appends text as a user turn, posts the transcript and appends the
// reply. A failed request still appends an assistant turn with the generic
// error text; the reason is in Result.Err. The returned error is only set
// when nothing was sent: empty input or another send in flight.
func (s *Session) Send(ctx context.Context, text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return Result{}, ErrSendInProgress
	}
	s.inFlight = true
	s.transcript = append(s.transcript, llm.Message{Role: llm.RoleUser, Content: text})
	snapshot := append([]llm.Message(nil), s.transcript...)
	s.mu.Unlock()

	reply, err := s.post(ctx, snapshot)
	if err != nil {
		logging.ErrorLogger.Error("chat send failed", zap.Error(err), zap.String("endpoint", s.endpoint))
		reply = site.ErrorReply()
	}

	s.mu.Lock()
	s.transcript = append(s.transcript, llm.Message{Role: llm.RoleAssistant, Content: reply})
	s.inFlight = false
	s.mu.Unlock()

	return Result{Reply: reply, Err: err}, nil
}

type chatRequest struct {
	Messages []llm.Message `json:"messages"`
}

type chatResponse struct {
	Message *string `json:"message"`
	Error   string  `json:"error"`
}

func (s *Session) post(ctx context.Context, messages []llm.Message) (string, error) {
	resp, err := httputils.PostJSON(ctx, s.client, s.endpoint, "", chatRequest{Messages: messages})
	if err != nil {
		return "", fmt.Errorf("post transcript: %w", err)
	}
	defer resp.Body.Close()

	var body chatResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&body)

	if !httputils.IsSuccess(resp.StatusCode) {
		return "", &StatusError{StatusCode: resp.StatusCode, Message: body.Error}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode reply: %w", decodeErr)
	}
	if body.Message == nil {
		return "", ErrMalformedReply
	}
	return *body.Message, nil
}
