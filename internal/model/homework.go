package model

import "time"

type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

// Submission is one entry of the "homeworks" list returned by the review API.
// Pointer fields distinguish an absent (or null) key from an empty value.
type Submission struct {
	ID              int64   `json:"id"`
	HomeworkName    *string `json:"homework_name"`
	Status          *Status `json:"status"`
	LessonName      string  `json:"lesson_name"`
	ReviewerComment string  `json:"reviewer_comment"`
	DateUpdated     string  `json:"date_updated"`
}

// PollState is everything the poll loop carries between cycles.
type PollState struct {
	Cursor      int64  `json:"cursor"`
	LastMessage string `json:"last_message"`
	LastError   string `json:"last_error"`
}

type Outcome string

const (
	OutcomeNotified  Outcome = "notified"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeEmpty     Outcome = "empty"
	OutcomeFailed    Outcome = "failed"
)

// Snapshot is the read model served by the status API.
type Snapshot struct {
	PollState
	StartedAt   time.Time `json:"started_at"`
	CycleID     string    `json:"cycle_id"`
	Cycles      int       `json:"cycles"`
	LastPollAt  time.Time `json:"last_poll_at"`
	LastOutcome Outcome   `json:"last_outcome"`
}
