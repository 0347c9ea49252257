package agents

import (
	"encoding/json"
	"regexp"
)

// Breakdown is the per-dimension confidence self-assessment. Every field
// is clamped to [0, 100].
type Breakdown struct {
	Understanding int `json:"understanding"`
	Solution      int `json:"solution"`
	SideEffects   int `json:"sideEffects"`
}

// Confidence is the optional self-assessment attached to an agent run.
type Confidence struct {
	Score          int        `json:"score"` // 0..100
	Breakdown      *Breakdown `json:"breakdown,omitempty"`
	Recommendation string     `json:"recommendation"` // proceed, ask, or stop
}

const confidenceSystemPrompt = `You assess how confident a set of code review findings are.

Respond with ONLY a JSON object:
{
  "score": 0-100,
  "breakdown": {
    "understanding": 0-100,
    "solution": 0-100,
    "sideEffects": 0-100
  },
  "recommendation": "proceed" | "ask" | "stop"
}

"understanding" rates how well the reviewed code was understood, "solution" rates how sound the proposed fixes are, and "sideEffects" rates how well their consequences were considered. "proceed" means the change can go ahead, "ask" means the findings are too uncertain to decide, and "stop" means at least one finding blocks the change.`

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

var validRecommendations = map[string]bool{
	"proceed": true,
	"ask":     true,
	"stop":    true,
}

// parseConfidence extracts a confidence assessment from a model reply.
// Score and recommendation are required; the breakdown is kept when
// present, with every numeric field clamped to [0, 100]. Returns nil when
// no usable object is present; confidence is advisory and a failed parse
// never fails the run.
func parseConfidence(text string) *Confidence {
	match := jsonObjectRe.FindString(text)
	if match == "" {
		return nil
	}

	// Pointer fields distinguish absent from zero.
	var raw struct {
		Score     *float64 `json:"score"`
		Breakdown *struct {
			Understanding *float64 `json:"understanding"`
			Solution      *float64 `json:"solution"`
			SideEffects   *float64 `json:"sideEffects"`
		} `json:"breakdown"`
		Recommendation *string `json:"recommendation"`
	}
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		return nil
	}
	if raw.Score == nil || raw.Recommendation == nil {
		return nil
	}

	rec := *raw.Recommendation
	if !validRecommendations[rec] {
		rec = "ask"
	}

	conf := &Confidence{Score: clampScore(*raw.Score), Recommendation: rec}
	if raw.Breakdown != nil {
		conf.Breakdown = &Breakdown{
			Understanding: clampScorePtr(raw.Breakdown.Understanding),
			Solution:      clampScorePtr(raw.Breakdown.Solution),
			SideEffects:   clampScorePtr(raw.Breakdown.SideEffects),
		}
	}
	return conf
}

func clampScore(v float64) int {
	n := int(v)
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

func clampScorePtr(v *float64) int {
	if v == nil {
		return 0
	}
	return clampScore(*v)
}
