package model

import "time"

// RFIDCard binds a physical card UID to a roster member.
type RFIDCard struct {
	UID       string    `gorm:"primaryKey;size:64"`
	MemberID  int64     `gorm:"index;not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Associations
	Member Member `gorm:"constraint:OnDelete:CASCADE"`
}

// TableName pins the spec'd table name; GORM's default naming would
// split the RFID initialism and produce "rf_id_cards".
func (RFIDCard) TableName() string { return "rfid_cards" }
