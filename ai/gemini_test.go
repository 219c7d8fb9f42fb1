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

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `[{"rank":1}]`, want: `[{"rank":1}]`},
		{name: "json fence", in: "```json\n[{\"rank\":1}]\n```", want: `[{"rank":1}]`},
		{name: "bare fence", in: "```\n{}\n```", want: `{}`},
		{name: "whitespace", in: "  {} \n", want: `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSON(tt.in))
		})
	}
}

func TestDecodeExtractedRows(t *testing.T) {
	text := `[
		{"teamName": "TEAM23", "rank": 1, "kills": 23},
		{"teamName": "TEAM8", "rank": "not-a-number", "kills": 2},
		{"teamName": "TEAM9", "rank": 2, "kills": "x"},
		{"teamName": "", "rank": 3, "kills": 1},
		{"teamName": "TEAM4", "rank": 0, "kills": 1},
		{"teamName": "TEAM5", "rank": 5, "kills": 7}
	]`

	rows := decodeExtractedRows(text)

	require.Len(t, rows, 2, "bad rows are dropped without failing the batch")
	assert.Equal(t, "TEAM23", rows[0].TeamLabel)
	assert.Equal(t, 23, rows[0].Kills)
	assert.Equal(t, "TEAM5", rows[1].TeamLabel)
}

func TestDecodeExtractedRows_Garbage(t *testing.T) {
	assert.Nil(t, decodeExtractedRows(""))
	assert.Nil(t, decodeExtractedRows("not json at all"))
}

func TestGeminiClient_ExtractMatchData(t *testing.T) {
	modelOutput := `[{"teamName":"TEAM1","rank":1,"kills":10}]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Contains(t, r.URL.RawQuery, "key=test-key")

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Contents)
		require.NotNil(t, req.Contents[0].Parts[0].InlineData)

		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": modelOutput}}}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client, err := NewGeminiClient(GeminiClientConfig{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	rows, err := client.ExtractMatchData(context.Background(), []byte("img"), "image/png", []string{"Alpha"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "TEAM1", rows[0].TeamLabel)
	assert.Equal(t, 10, rows[0].Kills)
}

func TestGeminiClient_ParseScoringRules_Unparseable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"sorry, no"}]}}]}`)
	}))
	defer srv.Close()

	client, err := NewGeminiClient(GeminiClientConfig{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	policy, err := client.ParseScoringRules(context.Background(), "1st = 50 pts")
	require.NoError(t, err)
	assert.Nil(t, policy, "unparseable output leaves caller's policy untouched")
}

func TestGeminiClient_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiClient(GeminiClientConfig{})
	assert.Error(t, err)
}
