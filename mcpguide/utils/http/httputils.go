package httputils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"mcpguide/mcpguide/utils/types"
)

// NewJSONRequest builds a POST request with a JSON body. apiKey is sent as a
// bearer token when non-empty.
func NewJSONRequest(ctx context.Context, url, apiKey string, body interface{}) (*http.Request, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	return req, nil
}

// PostJSON sends body and returns the raw response. The caller owns resp.Body
// and decides what a non-2xx status means.
func PostJSON(ctx context.Context, client *http.Client, url, apiKey string, body interface{}) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := NewJSONRequest(ctx, url, apiKey, body)
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}

// IsSuccess reports a 2xx status.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}

// DrainBody reads at most limit bytes of the body, for error logging.
func DrainBody(r io.Reader, limit int64) string {
	b, _ := io.ReadAll(io.LimitReader(r, limit))
	return string(b)
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes {"error": msg} with the given status.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, types.ErrorResponse{Error: msg})
}
