// Package classify annotates persisted posts and replies with labels from
// an external text-classification service. The model itself is opaque to
// this process; only the wire contract matters here.
package classify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Prediction is the classifier verdict for one text.
type Prediction struct {
	Label      int     `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier labels a text. Label is 0 or 1; confidence is in [0,1].
type Classifier interface {
	Classify(ctx context.Context, text string) (Prediction, error)
}

// Client calls a remote model service over HTTP.
type Client struct {
	http *resty.Client
}

// NewClient builds a classifier client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &Client{http: c}
}

type classifyRequest struct {
	Text string `json:"text"`
}

// Classify sends one text to the model service.
func (c *Client) Classify(ctx context.Context, text string) (Prediction, error) {
	var pred Prediction
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(classifyRequest{Text: text}).
		SetResult(&pred).
		Post("/classify")
	if err != nil {
		return pred, fmt.Errorf("classifier request failed: %w", err)
	}
	if resp.IsError() {
		return pred, fmt.Errorf("classifier returned %s", resp.Status())
	}
	if pred.Label != 0 && pred.Label != 1 {
		return pred, fmt.Errorf("classifier returned invalid label %d", pred.Label)
	}
	return pred, nil
}
