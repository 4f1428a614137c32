package model

import "time"

// CleaningLogEntry records one applied cleaning step.
type CleaningLogEntry struct {
	SequenceNumber int       `json:"sequenceNumber" db:"seq"`
	Description    string    `json:"description" db:"description"`
	AppliedAt      time.Time `json:"appliedAt" db:"applied_at"`
}

// HistoryLogEntry records one user-triggered action.
type HistoryLogEntry struct {
	Timestamp time.Time `json:"timestamp" db:"ts"`
	Action    string    `json:"action" db:"action"`
	Details   string    `json:"details" db:"details"`
}

// HistoryTimeLayout is how history timestamps are shown to people.
const HistoryTimeLayout = "2006-01-02 15:04:05"
