package title

import (
	"regexp"
	"strings"

	"github.com/hbollon/go-edlib"
)

// numberRegex extracts part numbers from titles (e.g. "part 2").
var numberRegex = regexp.MustCompile(`\b(\d+)\b`)

// Confidence represents the confidence level of a title match.
type Confidence int

const (
	ConfidenceNone   Confidence = iota // Score < 0.70
	ConfidenceLow                      // Score >= 0.70
	ConfidenceMedium                   // Score >= 0.85
	ConfidenceHigh                     // Score >= 0.95
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// Candidate is a titled item that can be matched.
type Candidate struct {
	ID    string
	Title string
}

// Result is the outcome of a fuzzy title match. Score is the Jaro-Winkler
// similarity (0.0-1.0), Candidate is zero when Confidence is ConfidenceNone,
// and Ambiguous is set when another candidate scored the same.
type Result struct {
	Candidate  Candidate
	Score      float64
	Confidence Confidence
	Ambiguous  bool
}

// Match finds the candidate whose title best matches query.
// An exact (cleaned) title match always wins; otherwise Jaro-Winkler similarity
// is used, adjusted when part numbers agree or disagree.
func Match(query string, candidates []Candidate) Result {
	if len(candidates) == 0 {
		return Result{}
	}

	q := Clean(query)
	qNums := numberRegex.FindAllString(q, -1)

	var best Result
	for _, c := range candidates {
		ct := Clean(c.Title)

		score := float64(edlib.JaroWinklerSimilarity(q, ct))
		if ct == q {
			score = 1.0
		} else if strings.Contains(ct, q) && len(q) >= 3 {
			score = max(score, 0.90)
		}
		score = adjustScoreForNumbers(score, qNums, numberRegex.FindAllString(ct, -1))

		switch {
		case score > best.Score:
			best = Result{Candidate: c, Score: score}
		case score == best.Score && score > 0:
			best.Ambiguous = true
		}
	}

	switch {
	case best.Score >= 0.95:
		best.Confidence = ConfidenceHigh
	case best.Score >= 0.85:
		best.Confidence = ConfidenceMedium
	case best.Score >= 0.70:
		best.Confidence = ConfidenceLow
	default:
		best = Result{Score: best.Score}
	}

	return best
}

// adjustScoreForNumbers rewards matching part numbers and penalizes
// mismatched or missing ones. Scores are capped at 1.0.
func adjustScoreForNumbers(score float64, queryNums, candidateNums []string) float64 {
	if len(queryNums) == 0 {
		return score
	}
	if len(candidateNums) == 0 {
		return score * 0.85
	}

	candidateSet := make(map[string]bool, len(candidateNums))
	for _, n := range candidateNums {
		candidateSet[n] = true
	}
	for _, n := range queryNums {
		if candidateSet[n] {
			return min(score*1.05, 1.0)
		}
	}
	return score * 0.90
}
