package classify

// Activity labels a session can carry.
const (
	ActivityCoding    = "coding"
	ActivityDebugging = "debugging"
	ActivityLearning  = "learning"
	ActivityReviewing = "reviewing"
	ActivityOther     = "other"
)

// Labels lists every activity label in display and tie-break order,
// "other" last.
var Labels = []string{
	ActivityCoding,
	ActivityDebugging,
	ActivityLearning,
	ActivityReviewing,
	ActivityOther,
}

// signals are the per-session counts the activity rules are evaluated
// against. All counts come from user messages only; assistant output is too
// verbose to discriminate.
type signals struct {
	problemHits int // problem vocabulary occurrences
	buildHits   int // implement/create/build vocabulary occurrences
	learnHits   int // question/learning vocabulary occurrences
	reviewHits  int // review/cleanup vocabulary occurrences
	userTexts   int // user messages with non-empty text
}

// activityRules is the ordered rule table: first predicate that matches
// wins, anything that falls through is "other". Thresholds are deliberately
// strict; the vast majority of sessions carry too little vocabulary signal
// and resolve to "other".
var activityRules = []struct {
	label string
	match func(s signals) bool
}{
	{ActivityDebugging, func(s signals) bool {
		return s.problemHits >= 3 && s.problemHits > s.buildHits
	}},
	{ActivityCoding, func(s signals) bool {
		return s.buildHits >= 3 && s.buildHits >= s.problemHits && s.buildHits >= s.learnHits
	}},
	{ActivityLearning, func(s signals) bool {
		return s.learnHits >= 3 && s.learnHits > s.buildHits
	}},
	{ActivityReviewing, func(s signals) bool {
		return s.reviewHits >= 3 && s.reviewHits >= s.problemHits
	}},
}

func classifyActivity(s signals) string {
	for _, r := range activityRules {
		if r.match(s) {
			return r.label
		}
	}
	return ActivityOther
}
