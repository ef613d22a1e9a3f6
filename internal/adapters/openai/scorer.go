package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/polyedge/internal/domain"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	requestTimeout = 8 * time.Second
)

const systemPrompt = `You are a short-horizon crypto market analyst. ` +
	`Given price momentum and order-flow features for a 5-minute BTC ` +
	`up/down prediction market, respond with a single number between -1 ` +
	`and 1: positive means BTC is more likely to close UP, negative means ` +
	`DOWN, 0 means no edge. Respond with only the number.`

// Scorer implementa ports.BiasScorer contra la API de chat completions.
//
// El oracle es best-effort: cualquier fallo (sin API key, timeout, respuesta
// no parseable) produce bias 0 exacto, que anula el término externo del
// ensemble sin tocar el resto de la señal.
type Scorer struct {
	httpc   *http.Client
	baseURL string
	model   string
	apiKey  string
}

// NewScorer crea un scorer. Con apiKey vacía el scorer queda deshabilitado.
func NewScorer(baseURL, model, apiKey string) *Scorer {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	return &Scorer{
		httpc:   &http.Client{Timeout: requestTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
	}
}

// Enabled indica si el scorer tiene credenciales configuradas.
func (s *Scorer) Enabled() bool {
	return s.apiKey != ""
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
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

// Score devuelve el bias direccional en [-1, 1]. Nunca propaga errores.
func (s *Scorer) Score(ctx context.Context, f domain.FeatureVector) float64 {
	if !s.Enabled() {
		return 0
	}

	bias, err := s.score(ctx, f)
	if err != nil {
		slog.Warn("bias oracle unavailable, using neutral bias", "err", err)
		return 0
	}
	return bias
}

func (s *Scorer) score(ctx context.Context, f domain.FeatureVector) (float64, error) {
	user := fmt.Sprintf(
		"market=%s yes_price=%.4f ret_30s=%.4f ret_2m=%.4f vol_2m=%.4f whale_bias=%.2f whale_intensity=%.2f",
		f.MarketID, f.YesPrice, f.Returns30s, f.Returns2m, f.Vol2m, f.WhaleBias, f.WhaleIntensity,
	)

	body, err := json.Marshal(chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: user},
		},
		Temperature: 0,
		MaxTokens:   10,
	})
	if err != nil {
		return 0, fmt.Errorf("openai.score: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("openai.score: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("openai.score: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("openai.score: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("openai.score: status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return 0, fmt.Errorf("openai.score: decode: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return 0, fmt.Errorf("openai.score: empty choices")
	}

	return parseBias(parsed.Choices[0].Message.Content)
}

// parseBias extrae el número de la respuesta del modelo y lo clampea a [-1, 1].
func parseBias(content string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(content), 64)
	if err != nil {
		return 0, fmt.Errorf("openai.parseBias: %q: %w", content, err)
	}
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	return v, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
