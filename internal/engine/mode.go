package engine

import "strings"

// Mode represents the movement archetype of an exercise. It decides which
// joint the engine tracks and which repetition cycle applies.
type Mode string

const (
	// ModeLegs covers squat-type leg-dominant movements.
	ModeLegs Mode = "legs"
	// ModeLunge covers lunges and split-stance leg movements.
	ModeLunge Mode = "lunge"
	// ModePress covers overhead and shoulder pressing movements.
	ModePress Mode = "press"
	// ModePull covers rowing and pulling movements.
	ModePull Mode = "pull"
	// ModeGeneral is the fallback for unclassified exercises: calibration
	// and tempo display only, no rep counting or fault detection.
	ModeGeneral Mode = "general"
)

// modeRule binds a movement archetype to the name fragments that select it.
type modeRule struct {
	mode     Mode
	keywords []string
}

// modeRules is evaluated in order with first match winning. LUNGE is tested
// before LEGS so that names matching both ("utfallsknäböj") keep resolving
// to the lunge archetype; reordering silently reclassifies content.
var modeRules = []modeRule{
	{ModeLunge, []string{"utfall", "lunge", "split"}},
	{ModeLegs, []string{"knäböj", "squat", "knä", "benböj", "benpress"}},
	{ModePress, []string{"press", "axellyft", "overhead", "shoulder"}},
	{ModePull, []string{"rodd", "row", "drag", "pull", "chin"}},
}

// ResolveMode maps a free-text exercise name to its movement archetype.
// Matching is case-insensitive substring matching against the ordered rule
// table; no match falls back to ModeGeneral.
func ResolveMode(name string) Mode {
	lower := strings.ToLower(name)
	for _, rule := range modeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.mode
			}
		}
	}
	return ModeGeneral
}
