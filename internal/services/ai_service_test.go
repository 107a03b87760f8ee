package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"challengehub/internal/config"
	"challengehub/internal/models"
)

func aiConfig(baseURL string) config.OpenAIConfig {
	return config.OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	}
}

func seedOpinions(repo *fakeOpinionRepo, writerID int64, n int) {
	for i := 0; i < n; i++ {
		repo.seed(writerID, &models.Opinion{
			MissionID:  int64(i + 1),
			Difficulty: "MEDIUM",
			Impression: "went fine",
			Reaction:   "happy",
		})
	}
}

func chatReply(content string) string {
	reply := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
	out, _ := json.Marshal(reply)
	return string(out)
}

const validSuggestions = `[
	{"content": "write a journal entry", "level": 1},
	{"content": "cook a new recipe", "level": 2},
	{"content": "talk to a stranger", "level": 4}
]`

func TestSuggestMissions(t *testing.T) {
	var gotAuth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(chatReply(validSuggestions)))
	}))
	defer server.Close()

	opinions := newFakeOpinionRepo()
	seedOpinions(opinions, 1, 3)
	svc := NewAIService(opinions, aiConfig(server.URL), zap.NewNop())

	suggestions, err := svc.SuggestMissions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, suggestions, 3)
	assert.Equal(t, "write a journal entry", suggestions[0].Content)
	assert.Equal(t, "Bearer test-key", gotAuth.Load())
}

func TestSuggestMissionsRequiresOpinions(t *testing.T) {
	svc := NewAIService(newFakeOpinionRepo(), aiConfig("http://unused.invalid"), zap.NewNop())

	_, err := svc.SuggestMissions(context.Background(), 1)
	require.Error(t, err)
	serviceErr := GetServiceError(err)
	assert.Equal(t, "NOT_ENOUGH_OPINIONS", serviceErr.Code)
}

func TestSuggestMissionsRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(chatReply(validSuggestions)))
	}))
	defer server.Close()

	opinions := newFakeOpinionRepo()
	seedOpinions(opinions, 1, 1)
	svc := NewAIService(opinions, aiConfig(server.URL), zap.NewNop())

	suggestions, err := svc.SuggestMissions(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, suggestions, 3)
	assert.EqualValues(t, 2, calls.Load())
}

func TestSuggestMissionsDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	opinions := newFakeOpinionRepo()
	seedOpinions(opinions, 1, 1)
	svc := NewAIService(opinions, aiConfig(server.URL), zap.NewNop())

	_, err := svc.SuggestMissions(context.Background(), 1)
	require.Error(t, err)
	assert.EqualValues(t, 1, calls.Load())
}

func TestSuggestMissionsUnconfigured(t *testing.T) {
	svc := NewAIService(newFakeOpinionRepo(), config.OpenAIConfig{}, zap.NewNop())
	_, err := svc.SuggestMissions(context.Background(), 1)
	assert.True(t, IsErrorType(err, "SERVICE_UNAVAILABLE"))
}

func TestParseSuggestionsToleratesFences(t *testing.T) {
	wrapped := "Here you go:\n```json\n" + validSuggestions + "\n```"
	suggestions, err := parseSuggestions(wrapped)
	require.NoError(t, err)
	assert.Len(t, suggestions, 3)
}

func TestParseSuggestionsRejectsWrongCount(t *testing.T) {
	_, err := parseSuggestions(`[{"content": "only one", "level": 1}]`)
	assert.Error(t, err)
}
