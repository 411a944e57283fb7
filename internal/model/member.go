package model

import "time"

// Member represents a tracked person on the roster. Name is the canonical
// lower-cased display name; it is the join key voice commands resolve against,
// so it must stay unique. Members are deactivated by flipping IsActive, never
// deleted, so the attendance log keeps its references.
type Member struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:128;not null"`
	Program   string    `gorm:"size:128"`
	IsActive  bool      `gorm:"not null;default:true;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Associations
	Cards []RFIDCard `gorm:"foreignKey:MemberID"`
}
