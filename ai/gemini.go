package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/blackhacks/scrim-system/models"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	geminiModel    = "gemini-2.5-flash"
)

type GeminiClientConfig struct {
	APIKey  string
	BaseURL string // для тестов, пустое значение даёт боевой эндпоинт
	Timeout time.Duration
}

type geminiClient struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

// NewGeminiClient returns an Extractor+RuleParser backed by the Gemini
// REST API.
func NewGeminiClient(cfg GeminiClientConfig) (*geminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &geminiClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}, nil
}

var _ Extractor = (*geminiClient)(nil)
var _ RuleParser = (*geminiClient)(nil)

// --- wire types ---

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

var extractionSchema = json.RawMessage(`{
	"type": "ARRAY",
	"items": {
		"type": "OBJECT",
		"properties": {
			"teamName": {"type": "STRING"},
			"rank": {"type": "INTEGER"},
			"kills": {"type": "INTEGER"}
		},
		"required": ["teamName", "rank", "kills"]
	}
}`)

var scoringSchema = json.RawMessage(`{
	"type": "OBJECT",
	"properties": {
		"pointsPerKill": {"type": "INTEGER"},
		"rankPoints": {"type": "ARRAY", "items": {"type": "INTEGER"}}
	},
	"required": ["pointsPerKill", "rankPoints"]
}`)

const extractionPrompt = `Analyze this battle-royale scoreboard image. It contains a list of teams, ranks, and kills.

CRITICAL INSTRUCTION - FINDING RANK 1:
1. Scan the image for the row containing the number "2" in the left rank column.
2. Look IMMEDIATELY ABOVE that row.
3. The row above Rank 2 is ALWAYS Rank 1, even if it shows a trophy icon, a crown, or no number at all.
4. DO NOT SKIP THE FIRST ROW.

DATA EXTRACTION - for EVERY visible row:
- rank: the number on the left. If it is the trophy/medal row at the top, output 1.
- teamName: the text name of the team, read exactly. Do not insert spaces that are not there (e.g. "TEAM23", not "TEAM 23").
- kills: the number in the kills column.

Return a pure JSON array of {"rank": ..., "teamName": ..., "kills": ...} objects.`

const scoringPromptFmt = `You are a tournament configuration assistant.
Convert the following natural language scoring rules into a structured JSON object.

INPUT RULES:
%q

PARSING INSTRUCTIONS:
1. Progressions: if rules say "minus 5 points till 11th place", compute every value in the chain explicitly.
2. Ranges: if rules say "11th-15th = 8 points", indices 10..14 must all be 8.
3. Defaults: "pointsPerKill" is an integer (default 1 if unspecified). "rankPoints" is an array of integers, index 0 is rank 1, with at least 50 entries (fill trailing with 0).`

// ExtractMatchData sends one screenshot to the model and decodes its
// rows leniently: a malformed row is dropped, it never fails the batch.
func (c *geminiClient) ExtractMatchData(ctx context.Context, image []byte, mimeType string, knownTeamNames []string) ([]models.ExtractedRow, error) {
	prompt := extractionPrompt
	if len(knownTeamNames) > 0 {
		prompt += "\n\nRegistered team names for reference: " + strings.Join(knownTeamNames, ", ")
	}

	req := generateRequest{
		Contents: []content{{Parts: []part{
			{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(image)}},
			{Text: prompt},
		}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   extractionSchema,
		},
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return decodeExtractedRows(cleanJSON(text)), nil
}

// ParseScoringRules asks the model for a policy. Returns (nil, nil)
// when the response is not parseable, so callers keep what they have.
func (c *geminiClient) ParseScoringRules(ctx context.Context, rulesText string) (*models.ScoringPolicy, error) {
	req := generateRequest{
		Contents: []content{{Parts: []part{
			{Text: fmt.Sprintf(scoringPromptFmt, rulesText)},
		}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   scoringSchema,
		},
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	var policy models.ScoringPolicy
	if err := json.Unmarshal([]byte(cleanJSON(text)), &policy); err != nil {
		return nil, nil
	}
	if len(policy.RankPoints) == 0 {
		return nil, nil
	}
	if policy.PointsPerKill < 0 {
		policy.PointsPerKill = 0
	}
	return &policy, nil
}

func (c *geminiClient) generate(ctx context.Context, payload generateRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("gemini: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, geminiModel, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("gemini: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return decoded.Candidates[0].Content.Parts[0].Text, nil
}

// cleanJSON strips markdown code fences the model sometimes wraps
// around its JSON output.
func cleanJSON(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// decodeExtractedRows tolerates per-row garbage: non-numeric rank or
// kills drops that row only, never the rest of the batch.
func decodeExtractedRows(text string) []models.ExtractedRow {
	if text == "" {
		return nil
	}

	var raw []struct {
		TeamName string      `json:"teamName"`
		Rank     json.Number `json:"rank"`
		Kills    json.Number `json:"kills"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil
	}

	rows := make([]models.ExtractedRow, 0, len(raw))
	for _, r := range raw {
		rank, err := r.Rank.Int64()
		if err != nil || rank < 1 {
			continue
		}
		kills, err := r.Kills.Int64()
		if err != nil || kills < 0 {
			continue
		}
		if strings.TrimSpace(r.TeamName) == "" {
			continue
		}
		rows = append(rows, models.ExtractedRow{
			TeamLabel: r.TeamName,
			Rank:      int(rank),
			Kills:     int(kills),
		})
	}
	return rows
}
