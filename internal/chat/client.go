package chat

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rcliao/persona-chat/internal/model"
)

// DefaultBaseURL is the completions endpoint used when none is
// configured.
const DefaultBaseURL = "https://gen.pollinations.ai/v1"

// AuthProvider supplies the bearer credential. It fails fast when no
// credential is configured.
type AuthProvider interface {
	APIKey() (string, error)
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	auth    AuthProvider
}

// NewClient builds a client. An empty baseURL falls back to
// DefaultBaseURL; a nil httpClient falls back to http.DefaultClient.
func NewClient(baseURL string, auth AuthProvider, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		auth:    auth,
	}
}

// Request is the outbound completions payload.
type Request struct {
	Model       string             `json:"model"`
	Messages    []model.PromptTurn `json:"messages"`
	Temperature float64            `json:"temperature"`
	MaxTokens   int                `json:"max_tokens"`
	Stream      bool               `json:"stream"`
}

// Usage is the provider-reported token accounting.
type Usage struct {
	TotalTokens int `json:"total_tokens"`
}

// Response is a non-streaming completions response.
type Response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *Usage `json:"usage,omitempty"`
}

// Content returns the first choice's content, or "".
func (r *Response) Content() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// CheckAuth reports whether a credential is available without making a
// request.
func (c *Client) CheckAuth() error {
	if _, err := c.auth.APIKey(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, req Request) (*http.Response, error) {
	key, err := c.auth.APIKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+key)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return resp, nil
}

// Complete performs a non-streaming exchange.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	req.Stream = false
	resp, err := c.post(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// Stream opens a streaming exchange. The returned Stream yields content
// deltas until the terminal [DONE] frame or stream end.
func (c *Client) Stream(ctx context.Context, req Request) (*Stream, error) {
	req.Stream = true
	resp, err := c.post(ctx, req)
	if err != nil {
		return nil, err
	}
	return &Stream{
		body:    resp.Body,
		scanner: bufio.NewScanner(resp.Body),
	}, nil
}

// Stream decodes the newline-delimited "data: " frames of a streaming
// response.
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

// streamChunk is one decoded frame payload.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Recv returns the next content delta. done is true on the [DONE]
// sentinel or stream end. A frame that fails to parse is logged and
// skipped; it never ends the stream.
func (s *Stream) Recv() (delta string, done bool, err error) {
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" || !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			return "", true, nil
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			slog.Warn("malformed streaming frame, skipping", "error", err)
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if content := chunk.Choices[0].Delta.Content; content != "" {
			return content, false, nil
		}
	}
	return "", true, s.scanner.Err()
}

// Close releases the underlying transfer.
func (s *Stream) Close() error {
	return s.body.Close()
}
