// Package scoring derives a day's score from its current entry set.
// Compute is pure and deterministic; it is called after every entry
// mutation and its result is the only legitimate source of the score,
// topicScores and completedActions fields on a DayLog header.
package scoring

import (
	"fmt"
	"math"

	"github.com/lifeceo/backend/internal/models"
)

// Result is the derived state for one day.
type Result struct {
	// Score is the total daily score, capped at 100 and rounded once.
	Score int
	// TopicScores maps topicId to its unrounded contribution (0-100 scale).
	// Every topic in the input appears as a key, including zero-entry ones.
	TopicScores map[string]float64
	// CompletedActions holds "{date}-{actionId}" for every entry that is both
	// completed and catalog-sourced. Ad-hoc completions are excluded so the
	// ledger stays keyed on catalog identity.
	CompletedActions []string
}

// LedgerKey formats the completed-action ledger key for one action on one
// date. The export collaborator is keyed on this exact format, so it must
// not change.
func LedgerKey(date, actionID string) string {
	return fmt.Sprintf("%s-%s", date, actionID)
}

// Compute scores one day. topics is the user's full ordered topic set,
// entries the full entry set of the day's log. topicsCount is the configured
// department cardinality; each topic is worth 100/topicsCount so a fully
// completed day across all topics sums to 100. A non-positive topicsCount
// falls back to len(topics).
//
// Entries referencing a topicId not present in topics contribute nothing:
// restructuring may leave such orphans behind and they must not break
// recomputation. A topic with zero entries scores exactly 0.
func Compute(date string, topics []models.Topic, entries []models.LogEntry, topicsCount int) Result {
	if topicsCount <= 0 {
		topicsCount = len(topics)
	}

	res := Result{
		TopicScores:      make(map[string]float64, len(topics)),
		CompletedActions: make([]string, 0, len(entries)),
	}

	for _, e := range entries {
		if e.IsCompleted && e.ActionID != "" {
			res.CompletedActions = append(res.CompletedActions, LedgerKey(date, e.ActionID))
		}
	}

	if topicsCount == 0 {
		return res
	}
	maxPerTopic := 100.0 / float64(topicsCount)

	var total float64
	for _, topic := range topics {
		var n, completed int
		for _, e := range entries {
			if e.TopicID != topic.ID {
				continue
			}
			n++
			if e.IsCompleted {
				completed++
			}
		}
		if n == 0 {
			res.TopicScores[topic.ID] = 0
			continue
		}

		weightPerAction := maxPerTopic / float64(n)
		tScore := float64(completed) * weightPerAction
		total += tScore
		res.TopicScores[topic.ID] = tScore
	}

	// Round once, at the total. Per-topic scores keep their fractional
	// precision for display and export.
	res.Score = int(math.Round(math.Min(100, total)))
	return res
}

// FullyComplete reports whether every scheduled entry of the given topic is
// completed. A topic with no entries is never considered complete.
func FullyComplete(topicID string, entries []models.LogEntry) bool {
	var n int
	for _, e := range entries {
		if e.TopicID != topicID {
			continue
		}
		if !e.IsCompleted {
			return false
		}
		n++
	}
	return n > 0
}
