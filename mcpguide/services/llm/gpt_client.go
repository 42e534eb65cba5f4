package llm

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	httputils "mcpguide/mcpguide/utils/http"
	"mcpguide/mcpguide/utils/logging"

	"go.uber.org/zap"
)

const maxErrorBody = 64 << 10

// GPTClient talks to an OpenAI-compatible chat completions API.
type GPTClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGPTClient returns a client for baseURL (e.g. https://api.openai.com/v1).
// A nil httpClient means http.DefaultClient.
func NewGPTClient(apiKey, baseURL string, httpClient *http.Client) *GPTClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GPTClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type gptResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type gptStreamResponse struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (c *GPTClient) endpoint() string {
	return c.baseURL + "/chat/completions"
}

// Run executes a single completion request (non-streaming).
func (c *GPTClient) Run(ctx context.Context, req ChatRequest) (string, error) {
	defer logging.LogDuration(ctx, "gpt_service_run")()

	req.Stream = false
	resp, err := httputils.PostJSON(ctx, c.httpClient, c.endpoint(), c.apiKey, req)
	if err != nil {
		return "", fmt.Errorf("gpt request: %w", err)
	}
	defer resp.Body.Close()

	if !httputils.IsSuccess(resp.StatusCode) {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: httputils.DrainBody(resp.Body, maxErrorBody)}
	}

	var parsed gptResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode GPT response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return parsed.Choices[0].Message.Content, nil
}

// ErrStreamIncomplete means the provider stream ended before its [DONE] marker.
var ErrStreamIncomplete = errors.New("completion stream ended before [DONE]")

// RunStream handles streaming responses (OpenAI SSE framing). The returned
// Stream's Err is nil only when the provider sent [DONE].
func (c *GPTClient) RunStream(ctx context.Context, req ChatRequest) (*Stream, error) {
	req.Stream = true
	resp, err := httputils.PostJSON(ctx, c.httpClient, c.endpoint(), c.apiKey, req)
	if err != nil {
		return nil, fmt.Errorf("gpt stream request: %w", err)
	}
	if !httputils.IsSuccess(resp.StatusCode) {
		defer resp.Body.Close()
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: httputils.DrainBody(resp.Body, maxErrorBody)}
	}

	stream := NewStream(0)

	go func() {
		defer logging.LogDuration(ctx, "gpt_service_run_stream")()
		defer resp.Body.Close()
		stream.Close(readSSE(ctx, resp.Body, stream))
	}()

	return stream, nil
}

// readSSE forwards content deltas until [DONE]. Any other ending is an error.
func readSSE(ctx context.Context, body io.Reader, stream *Stream) error {
	reader := bufio.NewReader(body)

	for {
		if err := ctx.Err(); err != nil {
			logging.AppLogger.Info("GPT stream context cancelled", zap.String("trace_id", logging.TraceID(ctx)))
			return err
		}

		line, err := reader.ReadString('\n')
		if err != nil && !(err == io.EOF && line != "") {
			if err == io.EOF {
				return ErrStreamIncomplete
			}
			logging.ErrorLogger.Error("GPT stream read error", zap.Error(err), zap.String("trace_id", logging.TraceID(ctx)))
			return fmt.Errorf("read gpt stream: %w", err)
		}

		line = strings.TrimSpace(line)
		// Skip blank keep-alives, comments and non-data lines
		if line == "" || !strings.HasPrefix(line, "data:") {
			continue
		}

		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			return nil
		}

		var chunk gptStreamResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			logging.ErrorLogger.Error("GPT stream JSON parse error",
				zap.Error(err), zap.String("raw_line", data))
			continue
		}

		for _, choice := range chunk.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			if !stream.Send(ctx, choice.Delta.Content) {
				return ctx.Err()
			}
		}
	}
}
