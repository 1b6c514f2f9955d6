// Package classify derives technologies, topics, and an activity label from
// a session's message content. Classification is stateless and
// deterministic: the same session always yields the same result, and there
// is no failure mode, only best-effort output.
package classify

import (
	"sort"
	"strings"

	"worklens/internal/sanitize"
	"worklens/internal/session"
	"worklens/internal/transcript"
)

// Classifier holds the immutable lookup structures, built once at startup
// and shared by reference across every session.
type Classifier struct {
	tech []string
	topN int
}

// New builds a classifier with the curated technology dictionary plus any
// install-specific extras. topN bounds the topic list; non-positive values
// fall back to 5.
func New(extraTech []string, topN int) *Classifier {
	if topN <= 0 {
		topN = 5
	}

	tech := make([]string, 0, len(techKeywords)+len(extraTech))
	tech = append(tech, techKeywords...)
	for _, t := range extraTech {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tech = append(tech, t)
		}
	}

	return &Classifier{tech: tech, topN: topN}
}

// Classify fills the session's Activity, Technologies, and Topics in place.
// The session is immutable after this call.
func (c *Classifier) Classify(s *session.Session) {
	techSet := make(map[string]bool)
	var sig signals
	counter := newTopicCounter()

	for i := range s.Entries {
		e := &s.Entries[i]
		text := sanitize.StripTags(e.Text())
		if text == "" {
			continue
		}
		lower := strings.ToLower(text)

		for _, t := range c.tech {
			if strings.Contains(lower, t) {
				techSet[t] = true
			}
		}

		if e.Role() != transcript.RoleUser || e.IsToolResult() {
			continue
		}
		sig.userTexts++
		sig.problemHits += countAny(lower, problemWords)
		sig.buildHits += countAny(lower, buildWords)
		sig.learnHits += countAny(lower, learnWords)
		sig.reviewHits += countAny(lower, reviewWords)
		counter.add(lower)
	}

	s.Activity = classifyActivity(sig)
	s.Technologies = sortedSet(techSet)
	s.Topics = counter.top(c.topN)
}

func countAny(text string, words []string) int {
	n := 0
	for _, w := range words {
		n += strings.Count(text, w)
	}
	return n
}

func sortedSet(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// topicCounter ranks normalized words by frequency with first-seen order as
// the tie-break, so equal-frequency topics come out in a stable order.
type topicCounter struct {
	counts    map[string]int
	firstSeen map[string]int
	next      int
}

func newTopicCounter() *topicCounter {
	return &topicCounter{
		counts:    make(map[string]int),
		firstSeen: make(map[string]int),
	}
}

func (tc *topicCounter) add(lowerText string) {
	for _, word := range strings.Fields(lowerText) {
		word = strings.Trim(word, ".,:;!?\"'`()[]{}<>")
		if len(word) <= 3 || stopwords[word] {
			continue
		}
		if _, seen := tc.counts[word]; !seen {
			tc.firstSeen[word] = tc.next
			tc.next++
		}
		tc.counts[word]++
	}
}

func (tc *topicCounter) top(n int) []string {
	if len(tc.counts) == 0 {
		return nil
	}
	words := make([]string, 0, len(tc.counts))
	for w := range tc.counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		a, b := words[i], words[j]
		if tc.counts[a] != tc.counts[b] {
			return tc.counts[a] > tc.counts[b]
		}
		return tc.firstSeen[a] < tc.firstSeen[b]
	})
	if len(words) > n {
		words = words[:n]
	}
	return words
}
