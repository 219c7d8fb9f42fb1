package ai

import (
	"context"

	"github.com/blackhacks/scrim-system/models"
)

// Extractor reads a scoreboard screenshot and returns whatever rows it
// could make out. Implementations may return an empty slice (no data
// found), rows whose labels match no known team, or the same team more
// than once. Callers must reconcile, never trust.
type Extractor interface {
	ExtractMatchData(ctx context.Context, image []byte, mimeType string, knownTeamNames []string) ([]models.ExtractedRow, error)
}

// RuleParser turns natural-language scoring rules into a policy.
// A nil policy with nil error means "nothing parseable"; callers keep
// their existing policy in that case.
type RuleParser interface {
	ParseScoringRules(ctx context.Context, rulesText string) (*models.ScoringPolicy, error)
}
