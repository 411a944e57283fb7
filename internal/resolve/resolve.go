package resolve

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// DefaultThreshold is the minimum weighted-ratio score (0-100) for a match to
// be accepted. Below it the caller must treat the name as not found.
const DefaultThreshold = 80

// Resolver fuzzy-matches spoken name fragments against a roster snapshot.
type Resolver struct {
	threshold int
}

// New creates a resolver with the given acceptance threshold. Non-positive
// values fall back to DefaultThreshold.
func New(threshold int) *Resolver {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Resolver{threshold: threshold}
}

// Resolve scores the fragment against every roster name with a weighted ratio
// (tolerant of token reordering and transcription noise) and returns the
// single best candidate with its score. It returns ("", score) when the
// fragment or roster is empty, when the best score is below the acceptance
// threshold, or when two different roster names tie for the top score: an
// ambiguous fragment is rejected rather than resolved by list order.
func (r *Resolver) Resolve(fragment string, rosterNames []string) (string, int) {
	fragment = strings.ToLower(strings.TrimSpace(fragment))
	if fragment == "" || len(rosterNames) == 0 {
		return "", 0
	}

	bestName := ""
	bestScore := 0
	ambiguous := false
	for _, name := range rosterNames {
		score := fuzzy.WRatio(fragment, name)
		switch {
		case score > bestScore:
			bestName = name
			bestScore = score
			ambiguous = false
		case score == bestScore && name != bestName:
			ambiguous = true
		}
	}

	if ambiguous || bestScore < r.threshold {
		return "", bestScore
	}
	return bestName, bestScore
}
