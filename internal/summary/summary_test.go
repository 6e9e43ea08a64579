package summary

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms-evaluation/internal/rubric"
	"lms-evaluation/internal/schemas"
)

func testRubric() rubric.Rubric {
	return rubric.Rubric{
		Platforms: []string{rubric.OtherPlatform},
		Categories: []rubric.Category{
			{ID: "ux", Name: "User Experience", Weight: 0.15, Items: []rubric.Item{
				{ID: "nav", Description: "Navigation"},
				{ID: "look", Description: "Look and feel"},
			}},
			{ID: "cost", Name: "Cost", Weight: 0.85, Items: []rubric.Item{
				{ID: "price", Description: "Price"},
			}},
		},
	}
}

func testEvaluation() schemas.EvaluationData {
	return schemas.EvaluationData{
		ID:                "ev-1",
		ReviewerName:      "Noor",
		EvaluationDate:    "2025-04-01",
		PlatformEvaluated: "Kaltura",
		OverallScore:      3.5,
		Scores: schemas.Scores{
			"ux": {Items: map[string]schemas.ScoreItem{
				"nav":  {Score: schemas.NewScore(4), Comments: "Clear menus"},
				"look": {Score: schemas.NewScore(3)},
			}},
		},
	}
}

func TestReport(t *testing.T) {
	got := Report(testRubric(), testEvaluation())

	want := "EVALUATION REPORT\n" +
		"Platform: Kaltura\n" +
		"Reviewer: Noor\n" +
		"Date: 2025-04-01\n" +
		"Overall Weighted Score: 3.50 / 5.00\n\n" +
		"--- DETAILED BREAKDOWN ---\n\n" +
		"CATEGORY: User Experience (Weight: 15%)\n" +
		"Average Score for Category: 3.50 / 5.00\n" +
		"  - Item: Navigation\n" +
		"    - Score: 4\n" +
		"    - Comments: Clear menus\n" +
		"  - Item: Look and feel\n" +
		"    - Score: 3\n" +
		"    - Comments: None\n" +
		"\n"
	assert.Equal(t, want, got)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "15", Percent(0.15))
	assert.Equal(t, "20", Percent(0.2))
	assert.Equal(t, "12.5", Percent(0.125))
}

func TestPrompt_EmbedsReport(t *testing.T) {
	p := Prompt("REPORT BODY")
	assert.Contains(t, p, "expert technology procurement consultant")
	assert.Contains(t, p, "EVALUATION REPORT:\n---\nREPORT BODY\n---")
}

type fakeGenerator struct {
	text   string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.text, f.err
}

func TestService_Summarize(t *testing.T) {
	ctx := context.Background()

	t.Run("missing credential", func(t *testing.T) {
		s := NewService(testRubric(), nil, 0, nil)
		assert.Equal(t, MissingKeyMessage, s.Summarize(ctx, testEvaluation()))
	})

	t.Run("success", func(t *testing.T) {
		gen := &fakeGenerator{text: "**Recommended**"}
		s := NewService(testRubric(), gen, 0, nil)
		assert.Equal(t, "**Recommended**", s.Summarize(ctx, testEvaluation()))
		assert.Contains(t, gen.prompt, "Platform: Kaltura")
	})

	t.Run("provider error", func(t *testing.T) {
		s := NewService(testRubric(), &fakeGenerator{err: errors.New("quota exceeded")}, 0, nil)
		got := s.Summarize(ctx, testEvaluation())
		assert.Equal(t, "An error occurred while generating the summary: quota exceeded", got)
		assert.True(t, IsErrorText(got))
	})

	t.Run("empty response", func(t *testing.T) {
		s := NewService(testRubric(), &fakeGenerator{text: "  "}, 0, nil)
		assert.Equal(t, UnknownMessage, s.Summarize(ctx, testEvaluation()))
	})
}

func TestNewGenerator(t *testing.T) {
	ctx := context.Background()

	_, err := NewGenerator(ctx, GeneratorConfig{Provider: ProviderOpenAI})
	assert.ErrorIs(t, err, ErrMissingCredential)

	_, err = NewGenerator(ctx, GeneratorConfig{Provider: "claude", APIKey: "k"})
	assert.EqualError(t, err, `unknown ai provider "claude"`)

	gen, err := NewGenerator(ctx, GeneratorConfig{Provider: ProviderOpenAI, APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, gen)
}

func TestOpenAI_Generate(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body.Model)
		require.Len(t, body.Messages, 1)
		gotPrompt = body.Messages[0].Content

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": "Recommended with Reservations"},
				"finish_reason": "stop",
			}},
		})
	}))
	defer srv.Close()

	gen := NewOpenAI(GeneratorConfig{APIKey: "test-key", Model: "test-model", BaseURL: srv.URL})
	s := NewService(testRubric(), gen, 0, nil)

	got := s.Summarize(context.Background(), testEvaluation())
	assert.Equal(t, "Recommended with Reservations", got)
	assert.True(t, strings.Contains(gotPrompt, "CATEGORY: User Experience (Weight: 15%)"))
}

func TestOpenAI_ServerErrorBecomesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
	}))
	defer srv.Close()

	gen := NewOpenAI(GeneratorConfig{APIKey: "k", BaseURL: srv.URL})
	got := NewService(testRubric(), gen, 0, nil).Summarize(context.Background(), testEvaluation())

	assert.True(t, strings.HasPrefix(got, "An error occurred while generating the summary: "))
	assert.Contains(t, got, "upstream exploded")
}
