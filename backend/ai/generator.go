package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Generator asks a chat-completion endpoint to produce a custom roadmap for
// a topic: a title, a description and an ordered list of module titles.
type Generator struct {
	client *resty.Client
	model  string
}

func NewGenerator(baseURL, apiKey, model string) *Generator {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Generator{client: client, model: model}
}

type GeneratedRoadmap struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Modules     []string `json:"modules"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
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

const systemPrompt = "You are a curriculum planner. Answer with a single JSON object " +
	`{"title": string, "description": string, "modules": [string, ...]} ` +
	"describing a learning roadmap of 5 to 8 ordered modules. No prose outside the JSON."

// GenerateRoadmap returns a generated roadmap for the topic. The module
// titles come back in traversal order.
func (g *Generator) GenerateRoadmap(ctx context.Context, topic string) (*GeneratedRoadmap, error) {
	request := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Build a roadmap for learning %q.", topic)},
		},
		Temperature: 0.7,
	}

	var response chatResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&response).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("chat completion request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("chat completion: status %d", resp.StatusCode())
	}
	if response.Error != nil {
		return nil, fmt.Errorf("chat completion: %s", response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: no choices returned")
	}

	content := strings.TrimSpace(response.Choices[0].Message.Content)
	// Some models wrap the JSON in a markdown fence.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var roadmap GeneratedRoadmap
	if err := json.Unmarshal([]byte(content), &roadmap); err != nil {
		return nil, fmt.Errorf("decode generated roadmap: %w", err)
	}
	if roadmap.Title == "" || len(roadmap.Modules) == 0 {
		return nil, fmt.Errorf("generated roadmap is incomplete")
	}
	return &roadmap, nil
}
