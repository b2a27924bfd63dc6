package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, content string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var request chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.Equal(t, "test-model", request.Model)

		w.Header().Set("Content-Type", "application/json")
		response := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(response)
	}))
}

const roadmapJSON = `{"title":"Learn Go","description":"From zero to services","modules":["Syntax","Types","Concurrency","Testing","HTTP"]}`

func TestGenerateRoadmap(t *testing.T) {
	server := completionServer(t, roadmapJSON)
	defer server.Close()

	generator := NewGenerator(server.URL, "test-key", "test-model")
	roadmap, err := generator.GenerateRoadmap(context.Background(), "Go")
	require.NoError(t, err)

	assert.Equal(t, "Learn Go", roadmap.Title)
	assert.Equal(t, []string{"Syntax", "Types", "Concurrency", "Testing", "HTTP"}, roadmap.Modules)
}

func TestGenerateRoadmapUnwrapsFencedJSON(t *testing.T) {
	server := completionServer(t, "```json\n"+roadmapJSON+"\n```")
	defer server.Close()

	generator := NewGenerator(server.URL, "test-key", "test-model")
	roadmap, err := generator.GenerateRoadmap(context.Background(), "Go")
	require.NoError(t, err)
	assert.Len(t, roadmap.Modules, 5)
}

func TestGenerateRoadmapRejectsEmptyResult(t *testing.T) {
	server := completionServer(t, `{"title":"","modules":[]}`)
	defer server.Close()

	generator := NewGenerator(server.URL, "test-key", "test-model")
	_, err := generator.GenerateRoadmap(context.Background(), "Go")
	assert.Error(t, err)
}

func TestGenerateRoadmapAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limited"}}`)
	}))
	defer server.Close()

	generator := NewGenerator(server.URL, "test-key", "test-model")
	_, err := generator.GenerateRoadmap(context.Background(), "Go")
	assert.Error(t, err)
}

func TestModeratorCheck(t *testing.T) {
	flagged := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request moderationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]bool{{"flagged": flagged}},
		})
	}))
	defer server.Close()

	moderator := NewModerator(server.URL, "test-key")

	ok, err := moderator.Check(context.Background(), "learn python")
	require.NoError(t, err)
	assert.True(t, ok)

	flagged = true
	ok, err = moderator.Check(context.Background(), "something nasty")
	require.NoError(t, err)
	assert.False(t, ok)
}
