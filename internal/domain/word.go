package domain

import (
	"time"

	"github.com/google/uuid"
)

// WordPair is a single vocabulary item owned by one user in one target
// language. Progress is an integer in [0,100]; NextDue is always set
// (new pairs are due immediately).
type WordPair struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	NativeWord    string
	TargetWord    string
	Language      string
	Progress      int
	LastPracticed *time.Time
	NextDue       time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsDueOn reports whether the pair is due on the given calendar day.
func (w *WordPair) IsDueOn(day time.Time) bool {
	return !DayOf(w.NextDue).After(DayOf(day))
}

// UserProfile holds the user attributes the trainer needs.
type UserProfile struct {
	ID                uuid.UUID
	Login             string
	NativeLanguage    string
	InterfaceLanguage string
	LearningLanguages []string
	PreferredTopics   []string
	CreatedAt         time.Time
}

// ErrorRecord is an aggregated count of one error description for a
// user+language. Description acts as the dedup key; Count only grows.
type ErrorRecord struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Language    string
	Description string
	Count       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DayOf truncates a timestamp to its calendar day in UTC.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
