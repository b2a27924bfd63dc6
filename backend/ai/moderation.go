package ai

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// Moderator checks user-supplied text against a content-moderation endpoint
// before it is fed into roadmap generation.
type Moderator struct {
	client *resty.Client
	url    string
}

func NewModerator(url, apiKey string) *Moderator {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Moderator{client: client, url: url}
}

type moderationRequest struct {
	Input string `json:"input"`
}

type moderationResponse struct {
	Results []struct {
		Flagged bool `json:"flagged"`
	} `json:"results"`
}

// Check reports whether the text is acceptable. An empty result set is
// treated as acceptable.
func (m *Moderator) Check(ctx context.Context, text string) (bool, error) {
	var response moderationResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(moderationRequest{Input: text}).
		SetResult(&response).
		Post(m.url)
	if err != nil {
		return false, fmt.Errorf("moderation request: %w", err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("moderation: status %d", resp.StatusCode())
	}

	for _, r := range response.Results {
		if r.Flagged {
			return false, nil
		}
	}
	return true, nil
}
