package model

import "time"

// CenterInfo holds the descriptive record for the center itself. The latest
// row wins; older rows are kept as history.
type CenterInfo struct {
	ID           int64  `gorm:"primaryKey"`
	Title        string `gorm:"size:256;not null"`
	Description  string
	Vision       string
	Mission      string
	Location     string `gorm:"size:256"`
	ContactEmail string `gorm:"size:128"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Guest records a visiting guest and the welcome note to read for them.
type Guest struct {
	ID           int64  `gorm:"primaryKey"`
	Name         string `gorm:"size:128;not null;index"`
	WelcomeNote  string
	Organization string `gorm:"size:256"`
	Designation  string `gorm:"size:128"`
	VisitPurpose string `gorm:"size:256"`
	VisitDate    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Project is a center project members can ask about by title.
type Project struct {
	ID          int64  `gorm:"primaryKey"`
	Title       string `gorm:"size:256;not null;index"`
	Description string
	Domain      string `gorm:"size:128"`
	Status      string `gorm:"size:32;not null;index"`
	Mentor      string `gorm:"size:128"`
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
