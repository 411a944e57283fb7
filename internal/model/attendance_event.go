package model

import "time"

// Status is the closed set of attendance states.
type Status string

const (
	StatusInside  Status = "INSIDE"
	StatusOutside Status = "OUTSIDE"
)

// Source tags which input channel produced an event.
type Source string

const (
	SourceVoice Source = "VOICE_COMMAND"
	SourceCard  Source = "CARD_SCAN"
)

// AttendanceEvent is one entry in the append-only attendance log. Events are
// immutable once written; a member's current status is the status of their
// most recent event, or OUTSIDE when no event exists.
type AttendanceEvent struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	MemberID   int64     `gorm:"not null;index:idx_attendance_member_time,priority:1"`
	Status     Status    `gorm:"size:16;not null"`
	Source     Source    `gorm:"size:16;not null"`
	Reason     string    `gorm:"size:256"`
	RecordedAt time.Time `gorm:"not null;index:idx_attendance_member_time,priority:2"`

	// Associations
	Member Member `gorm:"constraint:OnDelete:CASCADE"`
}
