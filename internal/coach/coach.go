package coach

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"fitdash/internal/store"
)

// ErrDisabled is returned when no API key is configured
var ErrDisabled = errors.New("coach is disabled: no API key configured")

// DefaultBaseURL is the Gemini REST endpoint
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// fallbackModels are tried in order when the configured model is
// overloaded or unavailable.
var fallbackModels = []string{"gemini-2.0-flash-lite", "gemini-1.5-flash"}

// Coach generates short training advice from the current metrics.
// Responses are cached in the store so repeated dashboard opens do
// not burn API quota.
type Coach struct {
	httpClient *http.Client
	db         *store.DB
	apiKey     string
	model      string
	baseURL    string
	cacheTTL   time.Duration
}

// New creates a coach. An empty apiKey yields a disabled coach whose
// Advise always returns ErrDisabled.
func New(db *store.DB, apiKey, model string, cacheTTL time.Duration) *Coach {
	return &Coach{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		db:         db,
		apiKey:     apiKey,
		model:      model,
		baseURL:    DefaultBaseURL,
		cacheTTL:   cacheTTL,
	}
}

// NewWithBaseURL points the coach at an alternate endpoint for tests
func NewWithBaseURL(db *store.DB, apiKey, model, baseURL string, cacheTTL time.Duration) *Coach {
	c := New(db, apiKey, model, cacheTTL)
	c.baseURL = baseURL
	return c
}

// Enabled reports whether an API key is configured
func (c *Coach) Enabled() bool {
	return c.apiKey != ""
}

// Advise returns coaching advice for the given prompt data. A cached
// response is reused while it is fresh and the metrics have not
// changed; otherwise the model is called and the cache replaced.
func (c *Coach) Advise(ctx context.Context, data PromptData) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}

	prompt := BuildPrompt(data)
	hash := promptHash(prompt)

	if cached, err := c.db.GetCoachCache(); err == nil && cached != nil {
		fresh := time.Since(cached.CreatedAt) < c.cacheTTL
		if fresh && cached.PromptHash == hash {
			return cached.Response, nil
		}
	}

	response, err := c.generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	if err := c.db.SaveCoachCache(&store.CoachCache{
		PromptHash: hash,
		Response:   response,
		CreatedAt:  time.Now(),
	}); err != nil {
		// Advice is still usable, just not cached
		logrus.WithError(err).Warn("saving coach cache")
	}

	return response, nil
}

// generate calls the model, falling back through alternates when the
// primary is overloaded.
func (c *Coach) generate(ctx context.Context, prompt string) (string, error) {
	models := append([]string{c.model}, fallbackModels...)

	var lastErr error
	for _, model := range models {
		response, err := c.callModel(ctx, model, prompt)
		if err == nil {
			return response, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		logrus.WithError(err).WithField("model", model).Debug("model call failed, trying fallback")
	}

	return "", fmt.Errorf("all models failed: %w", lastErr)
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

func (c *Coach) callModel(ctx context.Context, model, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API error %d: %s", resp.StatusCode, string(errBody))
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response from model")
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func promptHash(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
