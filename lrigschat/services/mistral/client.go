// lrigschat/services/mistral/client.go
package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"lrigschat/lrigschat/types"
	"lrigschat/lrigschat/utils/logging"

	"go.uber.org/zap"
)

const defaultTimeout = 60 * time.Second

// Client talks to the Mistral chat completion API. Key, base URL and
// default model are immutable after construction; each call is
// stateless and independent.
type Client struct {
	apiKey       string
	baseURL      string
	defaultModel string
	httpClient   *http.Client
}

func New(apiKey, baseURL, defaultModel string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("mistral: missing API key")
	}
	if baseURL == "" {
		baseURL = "https://api.mistral.ai/v1"
	}
	return &Client{
		apiKey:       apiKey,
		baseURL:      baseURL,
		defaultModel: defaultModel,
		httpClient:   &http.Client{Timeout: defaultTimeout},
	}, nil
}

// CompletionRequest is the provider-agnostic request shape the chat
// controller assembles. ImageURI, when set, is attached to the last
// user message as a multimodal content part.
type CompletionRequest struct {
	Model     string
	Messages  []types.Message
	ImageURI  string
	MaxTokens int
}

type wireMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *imageURLPart `json:"image_url,omitempty"`
}

type imageURLPart struct {
	URL string `json:"url"`
}

type completionPayload struct {
	Model     string        `json:"model"`
	Messages  []wireMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
	Stream    bool          `json:"stream,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// TestConnection verifies key validity and reachability with a tiny
// completion against the default model.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.Complete(ctx, CompletionRequest{
		Model: c.defaultModel,
		Messages: []types.Message{
			{Role: types.RoleUser, Content: "Hello, are you connected?"},
		},
		MaxTokens: 10,
	})
	return err
}

// ListModels returns the provider's model ids, sorted.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return nil, err
	}

	var parsed struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &ProviderError{Detail: fmt.Sprintf("failed to decode model list: %v", err)}
	}
	models := make([]string, 0, len(parsed.Data))
	for _, m := range parsed.Data {
		models = append(models, m.ID)
	}
	sort.Strings(models)
	return models, nil
}

// Complete executes one non-streaming chat completion and returns the
// assistant message.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (types.Message, error) {
	defer logging.LogDuration(ctx, "mistral_complete")()

	resp, err := c.post(ctx, req, false)
	if err != nil {
		return types.Message{}, err
	}
	defer resp.Body.Close()

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return types.Message{}, &ProviderError{Detail: fmt.Sprintf("failed to decode response: %v", err)}
	}
	if len(parsed.Choices) == 0 {
		return types.Message{}, &ProviderError{Detail: "no choices in response"}
	}

	logging.AppLogger.Info("mistral completion",
		zap.String("model", req.Model),
		zap.Int("prompt_tokens", parsed.Usage.PromptTokens),
		zap.Int("completion_tokens", parsed.Usage.CompletionTokens),
	)
	return types.Message{
		Role:      types.RoleAssistant,
		Content:   parsed.Choices[0].Message.Content,
		Timestamp: time.Now(),
	}, nil
}

func (c *Client) post(ctx context.Context, req CompletionRequest, stream bool) (*http.Response, error) {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}
	payload := completionPayload{
		Model:     model,
		Messages:  buildWireMessages(req),
		MaxTokens: req.MaxTokens,
		Stream:    stream,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	if err := statusError(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

// buildWireMessages serializes history into role/content pairs. An
// image rides along as a data-URI content part on the last user
// message, per the Mistral multimodal contract.
func buildWireMessages(req CompletionRequest) []wireMessage {
	out := make([]wireMessage, len(req.Messages))
	for i, m := range req.Messages {
		out[i] = wireMessage{Role: string(m.Role), Content: m.Content}
	}
	if req.ImageURI == "" {
		return out
	}
	for i := len(out) - 1; i >= 0; i-- {
		if out[i].Role != string(types.RoleUser) {
			continue
		}
		text, _ := out[i].Content.(string)
		out[i].Content = []contentPart{
			{Type: "text", Text: text},
			{Type: "image_url", ImageURL: &imageURLPart{URL: req.ImageURI}},
		}
		break
	}
	return out
}

func statusError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	detail := readDetail(resp.Body)
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Status: resp.StatusCode, Detail: detail}
	case http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: retryAfter(resp), Detail: detail}
	default:
		return &ProviderError{Status: resp.StatusCode, Detail: detail}
	}
}

func readDetail(body io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(body, 2048))
	var parsed struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(b, &parsed) == nil && parsed.Message != "" {
		return parsed.Message
	}
	return string(b)
}

func retryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
