// Package models defines the core data structures for users, topics,
// day logs and log entries.
package models

import "errors"

// Sentinel errors for expected business conditions. Repositories and
// services return these instead of throwing across the public contract;
// only storage I/O failures propagate as wrapped driver errors.
var (
	// ErrNotFound indicates the requested user, topic or log does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness violation, e.g. a duplicate username
	// at registration.
	ErrConflict = errors.New("already exists")
	// ErrVersionMismatch indicates a backup snapshot with an incompatible
	// schema version.
	ErrVersionMismatch = errors.New("incompatible backup version")
)

// BackupVersion is the schema version tag carried by full snapshots.
// Import rejects any other value before touching the store.
const BackupVersion = "2.0"

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Username is the login name chosen by the user.
	Username string `json:"username"`
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"passwordHash"`
	// CEOName is the display name shown across the app.
	CEOName string `json:"ceoName"`
}

// Profile holds per-user settings collected during onboarding.
type Profile struct {
	// UserID is the owning user.
	UserID string `json:"userId"`
	// Name is the display name on the profile screen.
	Name string `json:"name"`
	// PhotoURL points at the profile photo (stored elsewhere).
	PhotoURL string `json:"photoUrl"`
	// OnboardingComplete marks whether the setup wizard has finished.
	OnboardingComplete bool `json:"onboardingComplete"`
	// DailyCheckInTime is the preferred check-in time, "HH:MM".
	DailyCheckInTime string `json:"dailyCheckInTime"`
	// TopicsCount is the configured number of departments (e.g. 5 or 10).
	// Scoring weights are derived from it so a fully completed day sums to 100.
	TopicsCount int `json:"topicsCount"`
}

// SubAction is a reusable, schedulable unit of work in a topic's bank.
// Identity is immutable once created; only the name is editable.
type SubAction struct {
	// ID is the unique identifier for the action.
	ID string `json:"id"`
	// TopicID is an optional back-reference to the owning topic.
	TopicID string `json:"topicId,omitempty"`
	// Name is the display name of the action.
	Name string `json:"name"`
}

// Topic is a user-defined department with a goal and a bank of actions.
type Topic struct {
	// ID is the unique identifier for the topic.
	ID string `json:"id"`
	// UserID is the owning user.
	UserID string `json:"userId"`
	// Name is the department name.
	Name string `json:"name"`
	// Goal is a free-text description of what the department is for.
	Goal string `json:"goal"`
	// TargetScore is the daily goal, 0-100.
	TargetScore int `json:"targetScore"`
	// Actions is the ordered bank of reusable actions.
	Actions []SubAction `json:"actions"`
}

// DayLog is the per-day, per-user score header. Exactly one exists per
// (user, date); it is created lazily with a zero score and mutated only by
// the scoring recompute step, never edited by hand.
type DayLog struct {
	// ID is the unique identifier for the log.
	ID string `json:"id"`
	// UserID is the owning user.
	UserID string `json:"userId"`
	// Date is the calendar day, "YYYY-MM-DD". The zero-padded fixed-width
	// form makes lexicographic ordering equal to chronological ordering.
	Date string `json:"date"`
	// Score is the derived 0-100 daily score, rounded once at the total.
	Score int `json:"score"`
	// TopicScores maps topicId to its unrounded contribution on the 0-100
	// scale. Reports convert to 0-10 at the boundary.
	TopicScores map[string]float64 `json:"topicScores"`
	// CompletedActions is the derived ledger of "{date}-{actionId}" keys for
	// completed catalog-sourced entries. Ad-hoc completions never appear here.
	CompletedActions []string `json:"completedActions"`
}

// LogEntry is an instance of an action scheduled into one specific day.
type LogEntry struct {
	// ID is the unique identifier for the entry.
	ID string `json:"id"`
	// LogID references the owning DayLog.
	LogID string `json:"logId"`
	// TopicID references the topic the entry is attributed to.
	TopicID string `json:"topicId"`
	// ActionID is set iff the entry was scheduled from the catalog.
	ActionID string `json:"actionId,omitempty"`
	// Name is always populated so entries stay displayable even after the
	// referenced catalog action is renamed or deleted.
	Name string `json:"name"`
	// IsCompleted marks the entry done for the day.
	IsCompleted bool `json:"isCompleted"`
	// IsAdHoc marks entries typed directly into a day without catalog backing.
	IsAdHoc bool `json:"isAdHoc"`
}

// Backup is a full snapshot of all tables plus a schema version tag.
type Backup struct {
	Users      []User     `json:"users"`
	Profiles   []Profile  `json:"profiles"`
	Topics     []Topic    `json:"topics"`
	DayLogs    []DayLog   `json:"day_logs"`
	LogEntries []LogEntry `json:"log_entries"`
	// Version must equal BackupVersion for the snapshot to be importable.
	Version string `json:"version"`
	// Timestamp records when the snapshot was taken, RFC3339.
	Timestamp string `json:"timestamp"`
}
