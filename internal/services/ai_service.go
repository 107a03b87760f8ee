package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"challengehub/internal/config"
	"challengehub/internal/models"
	"challengehub/internal/repositories"
)

const (
	suggestionCount   = 3
	recentOpinionsMax = 5
)

// AIService proposes new missions based on the user's recent reflections,
// via the OpenAI chat completions API.
type AIService struct {
	opinionRepo repositories.OpinionRepository
	httpClient  *http.Client
	config      config.OpenAIConfig
	logger      *zap.Logger
}

// NewAIService creates a new AI suggestion service
func NewAIService(opinionRepo repositories.OpinionRepository, cfg config.OpenAIConfig, logger *zap.Logger) *AIService {
	return &AIService{
		opinionRepo: opinionRepo,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		config:      cfg,
		logger:      logger,
	}
}

// SuggestMissions builds a prompt from the user's recent reflections and
// asks the model for three mission ideas. A user with no reflections yet
// has nothing to personalize on and gets a business error.
func (s *AIService) SuggestMissions(ctx context.Context, userID int64) ([]*models.MissionSuggestion, error) {
	if s.config.APIKey == "" {
		return nil, NewServiceUnavailableError("mission suggestions are not configured")
	}

	recent, err := s.opinionRepo.ListRecentByWriter(ctx, userID, recentOpinionsMax)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent opinions: %w", err)
	}
	if len(recent) == 0 {
		return nil, NewBusinessError("complete a mission and record a reflection first", "NOT_ENOUGH_OPINIONS")
	}

	prompt := s.buildPrompt(recent)

	var suggestions []*models.MissionSuggestion
	operation := func() error {
		result, err := s.requestSuggestions(ctx, prompt)
		if err != nil {
			return err
		}
		suggestions = result
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		s.logger.Error("Mission suggestion request failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil, NewServiceUnavailableError("mission suggestions are temporarily unavailable")
	}

	return suggestions, nil
}

// buildPrompt lists the reflections oldest first so the model sees the
// user's trajectory.
func (s *AIService) buildPrompt(recent []*models.Opinion) string {
	var b strings.Builder
	b.WriteString("The user recently completed these challenges and reflected on them:\n")
	for i := len(recent) - 1; i >= 0; i-- {
		o := recent[i]
		fmt.Fprintf(&b, "- difficulty: %s, impression: %s, reaction: %s\n", o.Difficulty, o.Impression, o.Reaction)
	}
	fmt.Fprintf(&b, "\nPropose exactly %d new personal challenges matched to this user. ", suggestionCount)
	b.WriteString(`Respond with a JSON array only, each element {"content": string, "level": integer 0-5}.`)
	return b.String()
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (s *AIService) requestSuggestions(ctx context.Context, prompt string) ([]*models.MissionSuggestion, error) {
	payload, err := json.Marshal(chatRequest{
		Model: s.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You design small, concrete self-improvement challenges."},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to encode request: %w", err))
	}

	url := strings.TrimRight(s.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("openai responded %d", resp.StatusCode)
	default:
		return nil, backoff.Permanent(fmt.Errorf("openai responded %d: %s", resp.StatusCode, truncateBody(body)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return parseSuggestions(parsed.Choices[0].Message.Content)
}

// parseSuggestions extracts the JSON array from the model output,
// tolerating surrounding prose or code fences.
func parseSuggestions(content string) ([]*models.MissionSuggestion, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in model output")
	}

	var suggestions []*models.MissionSuggestion
	if err := json.Unmarshal([]byte(content[start:end+1]), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}
	if len(suggestions) != suggestionCount {
		return nil, fmt.Errorf("expected %d suggestions, got %d", suggestionCount, len(suggestions))
	}
	for _, s := range suggestions {
		if strings.TrimSpace(s.Content) == "" {
			return nil, fmt.Errorf("suggestion with empty content")
		}
		if s.Level < 0 || s.Level > 5 {
			s.Level = 3
		}
	}
	return suggestions, nil
}

func truncateBody(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
