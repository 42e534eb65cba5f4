package chatclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"mcpguide/mcpguide/services/llm"
	"mcpguide/mcpguide/site"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEndpoint(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestNewSessionStartsWithGreeting(t *testing.T) {
	s := NewSession("http://unused", nil)
	assert.Equal(t, []llm.Message{{Role: llm.RoleAssistant, Content: site.Greeting()}}, s.Transcript())
	assert.False(t, s.Busy())
}

func TestSendPostsWholeTranscript(t *testing.T) {
	var got []chatRequest
	srv, calls := newEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		got = append(got, req)
		fmt.Fprintf(w, `{"message":"answer %d"}`, len(req.Messages))
	})
	s := NewSession(srv.URL, srv.Client())

	res, err := s.Send(context.Background(), "  What is MCP?  ")
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, "answer 2", res.Reply)

	res, err = s.Send(context.Background(), "Does it need credentials?")
	require.NoError(t, err)
	assert.Equal(t, "answer 4", res.Reply)
	assert.EqualValues(t, 2, calls.Load())

	require.Len(t, got, 2)
	assert.Equal(t, "What is MCP?", got[0].Messages[1].Content)
	assert.Equal(t, llm.RoleAssistant, got[1].Messages[2].Role)
	assert.Equal(t, "answer 2", got[1].Messages[2].Content)

	tr := s.Transcript()
	require.Len(t, tr, 5)
	assert.Equal(t, llm.Message{Role: llm.RoleAssistant, Content: "answer 4"}, tr[4])
}

func TestSendFailureAppendsErrorTurn(t *testing.T) {
	cases := map[string]struct {
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		"server error": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				fmt.Fprint(w, `{"error":"Failed to get response from AI"}`)
			},
			check: func(t *testing.T, err error) {
				var se *StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
				assert.Equal(t, "Failed to get response from AI", se.Message)
			},
		},
		"missing message": {
			handler: func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, `{}`) },
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrMalformedReply)
			},
		},
		"not json": {
			handler: func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, `<html>`) },
			check: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv, _ := newEndpoint(t, tc.handler)
			s := NewSession(srv.URL, srv.Client())

			res, err := s.Send(context.Background(), "Hi")
			require.NoError(t, err)
			assert.False(t, res.OK())
			assert.Equal(t, site.ErrorReply(), res.Reply)
			tc.check(t, res.Err)

			tr := s.Transcript()
			require.Len(t, tr, 3)
			assert.Equal(t, llm.Message{Role: llm.RoleAssistant, Content: site.ErrorReply()}, tr[2])
			assert.False(t, s.Busy())
		})
	}
}

func TestSendTransportFailure(t *testing.T) {
	srv, _ := newEndpoint(t, func(w http.ResponseWriter, r *http.Request) {})
	url := srv.URL
	srv.Close()

	s := NewSession(url, nil)
	res, err := s.Send(context.Background(), "Hi")
	require.NoError(t, err)
	assert.Error(t, res.Err)
	assert.Equal(t, site.ErrorReply(), res.Reply)
}

func TestSendIgnoresEmptyInput(t *testing.T) {
	srv, calls := newEndpoint(t, func(w http.ResponseWriter, r *http.Request) {})
	s := NewSession(srv.URL, srv.Client())

	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := s.Send(context.Background(), in)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
	assert.Len(t, s.Transcript(), 1)
	assert.Zero(t, calls.Load())
}

func TestSendRejectsConcurrentSend(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	srv, calls := newEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		fmt.Fprint(w, `{"message":"done"}`)
	})
	s := NewSession(srv.URL, srv.Client())

	done := make(chan Result, 1)
	go func() {
		res, _ := s.Send(context.Background(), "first")
		done <- res
	}()

	<-entered
	assert.True(t, s.Busy())
	_, err := s.Send(context.Background(), "second")
	assert.ErrorIs(t, err, ErrSendInProgress)
	assert.Len(t, s.Transcript(), 2, "rejected send must not touch the transcript")

	close(release)
	res := <-done
	assert.Equal(t, "done", res.Reply)
	assert.EqualValues(t, 1, calls.Load())
	assert.Len(t, s.Transcript(), 3)
	assert.False(t, s.Busy())
}

func TestSendHonoursCancellation(t *testing.T) {
	release := make(chan struct{})
	srv, _ := newEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	t.Cleanup(func() { close(release) })
	s := NewSession(srv.URL, srv.Client())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	res, err := s.Send(ctx, "Hi")
	require.NoError(t, err)
	assert.True(t, errors.Is(res.Err, context.DeadlineExceeded))
	assert.Equal(t, site.ErrorReply(), res.Reply)
	assert.False(t, s.Busy())
}
