package scoring_test

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeceo/backend/internal/models"
	"github.com/lifeceo/backend/internal/scoring"
)

const date = "2024-05-01"

func topic(id string, userID string) models.Topic {
	return models.Topic{ID: id, UserID: userID, Name: "topic-" + id, TargetScore: 100}
}

func entry(id, topicID, actionID string, completed bool) models.LogEntry {
	return models.LogEntry{
		ID:          id,
		LogID:       "log1",
		TopicID:     topicID,
		ActionID:    actionID,
		Name:        "entry-" + id,
		IsCompleted: completed,
		IsAdHoc:     actionID == "",
	}
}

func TestCompute_SingleTopicAllCompleted(t *testing.T) {
	// 1 topic, topicsCount=1, 2 actions both completed -> total 100.
	topics := []models.Topic{topic("t1", "u1")}
	entries := []models.LogEntry{
		entry("e1", "t1", "a1", true),
		entry("e2", "t1", "a2", true),
	}

	res := scoring.Compute(date, topics, entries, 1)

	assert.Equal(t, 100, res.Score)
	assert.InDelta(t, 100, res.TopicScores["t1"], 1e-9)
}

func TestCompute_HalfCompletedWithEmptyTopic(t *testing.T) {
	// 2 topics, topicsCount=2: topic1 has 4 entries / 2 completed, topic2 has
	// none. topic1 contributes 50*(2/4)=25, topic2 contributes 0, total 25.
	topics := []models.Topic{topic("t1", "u1"), topic("t2", "u1")}
	entries := []models.LogEntry{
		entry("e1", "t1", "a1", true),
		entry("e2", "t1", "a2", true),
		entry("e3", "t1", "a3", false),
		entry("e4", "t1", "a4", false),
	}

	res := scoring.Compute(date, topics, entries, 2)

	assert.Equal(t, 25, res.Score)
	assert.InDelta(t, 25, res.TopicScores["t1"], 1e-9)
	assert.InDelta(t, 0, res.TopicScores["t2"], 1e-9)
}

func TestCompute_FullCompletionSumsTo100(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 7, 10} {
		t.Run(fmt.Sprintf("topics=%d", n), func(t *testing.T) {
			var topics []models.Topic
			var entries []models.LogEntry
			for i := 0; i < n; i++ {
				id := fmt.Sprintf("t%d", i)
				topics = append(topics, topic(id, "u1"))
				// Uneven entry counts per topic to exercise fractional weights.
				for j := 0; j <= i%3; j++ {
					eid := fmt.Sprintf("e%d-%d", i, j)
					entries = append(entries, entry(eid, id, "a"+eid, true))
				}
			}

			res := scoring.Compute(date, topics, entries, n)
			assert.Equal(t, 100, res.Score)
		})
	}
}

func TestCompute_ToggleMonotonicity(t *testing.T) {
	topics := []models.Topic{topic("t1", "u1"), topic("t2", "u1")}
	entries := []models.LogEntry{
		entry("e1", "t1", "a1", false),
		entry("e2", "t1", "", false),
		entry("e3", "t2", "a3", false),
	}

	prev := scoring.Compute(date, topics, entries, 2).Score
	for i := range entries {
		entries[i].IsCompleted = true
		cur := scoring.Compute(date, topics, entries, 2).Score
		assert.GreaterOrEqual(t, cur, prev, "completing entry %d lowered the score", i)
		prev = cur
	}
	for i := range entries {
		entries[i].IsCompleted = false
		cur := scoring.Compute(date, topics, entries, 2).Score
		assert.LessOrEqual(t, cur, prev, "unchecking entry %d raised the score", i)
		prev = cur
	}
}

func TestCompute_RemovalReversibility(t *testing.T) {
	topics := []models.Topic{topic("t1", "u1")}
	entries := []models.LogEntry{entry("e1", "t1", "a1", true)}
	before := scoring.Compute(date, topics, entries, 1)

	withExtra := append([]models.LogEntry{}, entries...)
	withExtra = append(withExtra, entry("e2", "t1", "a2", true))
	after := scoring.Compute(date, topics, withExtra, 1)
	require.Equal(t, 100, after.Score)

	// Removing the added entry restores the previous result.
	restored := scoring.Compute(date, topics, entries, 1)
	assert.Equal(t, before.Score, restored.Score)
	assert.Equal(t, before.TopicScores, restored.TopicScores)
}

func TestCompute_LedgerExcludesAdHocAndIncomplete(t *testing.T) {
	topics := []models.Topic{topic("t1", "u1")}
	entries := []models.LogEntry{
		entry("e1", "t1", "a1", true),
		entry("e2", "t1", "a2", false),
		entry("e3", "t1", "", true), // ad-hoc, completed
		entry("e4", "t1", "a4", true),
	}

	res := scoring.Compute(date, topics, entries, 1)

	want := []string{
		scoring.LedgerKey(date, "a1"),
		scoring.LedgerKey(date, "a4"),
	}
	got := append([]string{}, res.CompletedActions...)
	sort.Strings(got)
	assert.Equal(t, want, got)
}

func TestCompute_OrphanEntriesIgnored(t *testing.T) {
	// Restructuring removed topic t2 but its entries survive; they must not
	// contribute to any score and must not break recomputation.
	topics := []models.Topic{topic("t1", "u1")}
	entries := []models.LogEntry{
		entry("e1", "t1", "a1", true),
		entry("e2", "t2", "a2", true),
		entry("e3", "t2", "a3", false),
	}

	res := scoring.Compute(date, topics, entries, 1)

	assert.Equal(t, 100, res.Score)
	_, ok := res.TopicScores["t2"]
	assert.False(t, ok, "orphan topic must not get a score entry")
	// The ledger still records the orphan completion: it is keyed on actionId,
	// not on topic membership.
	assert.Contains(t, res.CompletedActions, scoring.LedgerKey(date, "a2"))
}

func TestCompute_EmptyDay(t *testing.T) {
	topics := []models.Topic{topic("t1", "u1"), topic("t2", "u1")}

	res := scoring.Compute(date, topics, nil, 2)

	assert.Equal(t, 0, res.Score)
	assert.Empty(t, res.CompletedActions)
	assert.InDelta(t, 0, res.TopicScores["t1"], 1e-9)
	assert.InDelta(t, 0, res.TopicScores["t2"], 1e-9)
}

func TestCompute_TopicsCountFallback(t *testing.T) {
	topics := []models.Topic{topic("t1", "u1"), topic("t2", "u1")}
	entries := []models.LogEntry{
		entry("e1", "t1", "a1", true),
		entry("e2", "t2", "a2", true),
	}

	// topicsCount 0 falls back to len(topics).
	res := scoring.Compute(date, topics, entries, 0)
	assert.Equal(t, 100, res.Score)

	// No topics and no count at all: zero score, no panic.
	empty := scoring.Compute(date, nil, entries, 0)
	assert.Equal(t, 0, empty.Score)
}

func TestFullyComplete(t *testing.T) {
	entries := []models.LogEntry{
		entry("e1", "t1", "a1", true),
		entry("e2", "t1", "a2", true),
		entry("e3", "t2", "a3", false),
	}

	assert.True(t, scoring.FullyComplete("t1", entries))
	assert.False(t, scoring.FullyComplete("t2", entries))
	// No entries at all is never complete.
	assert.False(t, scoring.FullyComplete("t3", entries))
}
