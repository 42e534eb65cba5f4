package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProvider(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestNewChatRequestPrependsPreamble(t *testing.T) {
	in := []Message{{Role: RoleUser, Content: "hi"}, {Role: RoleAssistant, Content: "hello"}}
	req := NewChatRequest("be helpful", in)

	require.Len(t, req.Messages, 3)
	assert.Equal(t, Message{Role: RoleSystem, Content: "be helpful"}, req.Messages[0])
	assert.Equal(t, in, req.Messages[1:])
	assert.Equal(t, Model, req.Model)
	assert.Equal(t, MaxTokens, req.MaxTokens)
	assert.Equal(t, Temperature, req.Temperature)

	req.Messages[1].Content = "changed"
	assert.Equal(t, "hi", in[0].Content, "caller slice must not be aliased")
}

func TestRunSendsFixedParameters(t *testing.T) {
	var got map[string]any
	srv, calls := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"It is an adapter standard."}}]}`)
	})

	c := NewGPTClient("sk-test", srv.URL+"/v1/", nil)
	out, err := c.Run(context.Background(), NewChatRequest("preamble", []Message{{Role: RoleUser, Content: "What is it?"}}))
	require.NoError(t, err)
	assert.Equal(t, "It is an adapter standard.", out)
	assert.EqualValues(t, 1, calls.Load())

	assert.Equal(t, "gpt-4o-mini", got["model"])
	assert.EqualValues(t, 1000, got["max_tokens"])
	assert.InDelta(t, 0.7, got["temperature"], 1e-9)
	_, streaming := got["stream"]
	assert.False(t, streaming)
	msgs := got["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "What is it?", msgs[1].(map[string]any)["content"])
}

func TestRunNoChoices(t *testing.T) {
	srv, _ := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	})
	out, err := NewGPTClient("k", srv.URL, nil).Run(context.Background(), NewChatRequest("p", nil))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRunUpstreamError(t *testing.T) {
	srv, calls := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limited","type":"requests"}}`)
	})
	_, err := NewGPTClient("k", srv.URL, nil).Run(context.Background(), NewChatRequest("p", nil))

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusTooManyRequests, upErr.StatusCode)
	assert.Contains(t, upErr.Body, "rate limited")
	assert.NotContains(t, upErr.Error(), "rate limited")
	assert.EqualValues(t, 1, calls.Load(), "no retries")
}

func TestRunMalformedResponse(t *testing.T) {
	srv, _ := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":`)
	})
	_, err := NewGPTClient("k", srv.URL, nil).Run(context.Background(), NewChatRequest("p", nil))
	require.Error(t, err)
	var upErr *UpstreamError
	assert.False(t, errors.As(err, &upErr))
}

func TestRunTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewGPTClient("k", url, nil).Run(context.Background(), NewChatRequest("p", nil))
	require.Error(t, err)
}

func TestRunStream(t *testing.T) {
	srv, _ := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, true, body["stream"])

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, ": keep-alive\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"role\":\"assistant\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"It is \"}}]}\n\n")
		fmt.Fprint(w, "data: not-json\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"an adapter.\"},\"finish_reason\":\"stop\"}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	stream, err := NewGPTClient("k", srv.URL, nil).RunStream(context.Background(), NewChatRequest("p", nil))
	require.NoError(t, err)

	var parts []string
	for part := range stream.Chunks() {
		parts = append(parts, part)
	}
	assert.Equal(t, []string{"It is ", "an adapter."}, parts)
	assert.NoError(t, stream.Err())
}

func TestRunStreamEndsWithoutDone(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"body ends early": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"It is \"}}]}\n\n")
		},
		"connection dropped": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"It is \"}}]}\n\n")
			w.(http.Flusher).Flush()
			conn, _, err := w.(http.Hijacker).Hijack()
			if assert.NoError(t, err) {
				conn.Close()
			}
		},
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			srv, _ := newProvider(t, handler)
			stream, err := NewGPTClient("k", srv.URL, nil).RunStream(context.Background(), NewChatRequest("p", nil))
			require.NoError(t, err)

			var parts []string
			for part := range stream.Chunks() {
				parts = append(parts, part)
			}
			assert.Equal(t, []string{"It is "}, parts)
			assert.Error(t, stream.Err())
		})
	}
}

func TestRunStreamUpstreamError(t *testing.T) {
	srv, _ := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad key"}`, http.StatusUnauthorized)
	})
	_, err := NewGPTClient("k", srv.URL, nil).RunStream(context.Background(), NewChatRequest("p", nil))

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusUnauthorized, upErr.StatusCode)
}
