package translate

import (
	"context"
	"strings"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"

	"github.com/seatrans/seatrans/prompt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ---------------------------------------------------------------------------
// OpenAI-compatible chat completion client
// ---------------------------------------------------------------------------

type chatRequest struct {
	Model       string           `json:"model"`
	Messages    []prompt.Message `json:"messages"`
	Temperature float64          `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Client calls an OpenAI-compatible /chat/completions endpoint.
type Client struct {
	provider Provider
	http     *resty.Client
}

// NewClient creates a client for prov. Requests are sent with temperature
// 0 and are not retried.
func NewClient(prov Provider) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(prov.BaseURL, "/")).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal).
		SetHeader("Content-Type", "application/json")
	if prov.Timeout > 0 {
		c.SetTimeout(prov.Timeout)
	}
	if prov.Proxy != "" {
		c.SetProxy(prov.Proxy)
	}
	if prov.APIKey != "" {
		c.SetAuthToken(prov.APIKey)
	}
	return &Client{provider: prov, http: c}
}

// Invoke sends one chat completion and returns the trimmed reply.
func (c *Client) Invoke(ctx context.Context, req prompt.Request, model string) (string, error) {
	if model == "" {
		model = c.provider.Model
	}
	body := chatRequest{
		Model:       model,
		Messages:    req.Messages(),
		Temperature: 0.0,
	}

	rr, err := c.http.R().SetContext(ctx).SetBody(body).Post("/chat/completions")
	if err != nil {
		return "", wrapRemote(err, "%s request failed", c.provider.Name)
	}
	if rr.IsError() {
		return "", remoteErr("%s returned %s: %s", c.provider.Name, rr.Status(), truncate(rr.String(), 500))
	}

	var resp chatResponse
	if err := json.Unmarshal(rr.Body(), &resp); err != nil {
		return "", wrapRemote(err, "%s: invalid JSON response", c.provider.Name)
	}
	if resp.Error != nil && resp.Error.Message != "" {
		return "", remoteErr("%s API error: %s", c.provider.Name, resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", remoteErr("%s: no choices returned", c.provider.Name)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", remoteErr("%s: empty content", c.provider.Name)
	}
	return text, nil
}
