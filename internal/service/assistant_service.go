package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/at14318-design/timetable-backend/internal/repo"
	"github.com/at14318-design/timetable-backend/internal/schedule"
)

// ErrAssistantDisabled means no API key is configured.
var ErrAssistantDisabled = errors.New("assistant is not configured")

const defaultGenerateURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-3-flash-preview:generateContent"

// Suggestions are the canned prompts offered to the client.
var Suggestions = []string{
	"What is my next class?",
	"Show me my timetable for today",
	"Rate my timetable",
	"Do I have any free slots on Monday?",
	"What classes do I have on Friday?",
}

// AssistantService answers free-form questions about a user's timetable by
// proxying to the Gemini generateContent endpoint, enriching the prompt
// with the caller's entries when a user is known.
type AssistantService struct {
	apiKey     string
	url        string
	httpClient *http.Client
	timetable  repo.TimetableRepo
}

// NewAssistantService returns an AssistantService. An empty apiKey disables
// it; Ask then fails with ErrAssistantDisabled.
func NewAssistantService(apiKey string, timetable repo.TimetableRepo, httpClient *http.Client) *AssistantService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &AssistantService{
		apiKey:     apiKey,
		url:        defaultGenerateURL,
		httpClient: httpClient,
		timetable:  timetable,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Ask sends the message to the model. userID 0 means anonymous: the prompt
// goes through without timetable context.
func (s *AssistantService) Ask(ctx context.Context, userID int64, message string) (string, error) {
	if s.apiKey == "" {
		return "", ErrAssistantDisabled
	}
	prompt := message
	if userID != 0 {
		if enriched, err := s.withTimetableContext(ctx, userID, message); err == nil {
			prompt = enriched
		}
		// A context lookup failure degrades to the bare prompt.
	}

	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("assistant upstream status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "No response", nil
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

func (s *AssistantService) withTimetableContext(ctx context.Context, userID int64, message string) (string, error) {
	entries, err := s.timetable.List(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return message, nil
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s: %s (%s-%s)\n", e.Day, e.Subject,
			schedule.FormatMinutes(e.StartMin), schedule.FormatMinutes(e.EndMin))
	}
	return fmt.Sprintf(
		"%s\n\nContext: The user has the following timetable:\n%s\nInstruction: If the user asks to rate the timetable, analyze the schedule balance, gaps, and workload, then provide a rating out of 10 with reasons.",
		message, b.String(),
	), nil
}
