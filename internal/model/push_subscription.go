package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// Subscribers pick the members whose attendance changes they want pushed.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Members []*Member `gorm:"many2many:subscription_member_mapping;"`
}
