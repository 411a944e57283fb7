package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trait-attendance-backend/internal/model"
)

// ErrValidation is returned when provisioning input fails validation before
// any write happens.
var ErrValidation = errors.New("name and card id are required")

// RosterStore is the read/write contract over the member roster. Writes are
// provisioning-only; command handling never mutates the roster.
type RosterStore interface {
	ListActiveMembers(ctx context.Context) ([]model.Member, error)
	ListActiveMemberNames(ctx context.Context) ([]string, error)
	FindMemberByName(ctx context.Context, name string) (*model.Member, error)
	FindMemberByCardID(ctx context.Context, uid string) (*model.Member, error)
	UpsertMember(ctx context.Context, name, cardUID, program string) error
}

// EventLog is the append-only attendance log contract. There is deliberately
// no update or delete entry point.
type EventLog interface {
	LatestEventFor(ctx context.Context, memberID int64) (*model.AttendanceEvent, error)
	EventsOn(ctx context.Context, day time.Time) ([]model.AttendanceEvent, error)
	AppendEvent(ctx context.Context, memberID int64, status model.Status, source model.Source, reason string) error
}

// InfoStore serves the center-info, guest, and project content that the info
// intents read.
type InfoStore interface {
	LatestCenterInfo(ctx context.Context) (*model.CenterInfo, error)
	LatestGuest(ctx context.Context, name string) (*model.Guest, error)
	OngoingProjectTitles(ctx context.Context) ([]string, error)
	FindProjectByTitle(ctx context.Context, title string) (*model.Project, error)
}

// Store defines the interface for all database operations.
type Store interface {
	RosterStore
	EventLog
	InfoStore
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) ListActiveMembers(ctx context.Context) ([]model.Member, error) {
	var members []model.Member
	if err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&members).Error; err != nil {
		return nil, fmt.Errorf("failed to list active members: %w", err)
	}
	return members, nil
}

func (s *gormStore) ListActiveMemberNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.WithContext(ctx).
		Model(&model.Member{}).
		Where("is_active = ?", true).
		Order("name ASC").
		Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to list member names: %w", err)
	}
	return names, nil
}

func (s *gormStore) FindMemberByName(ctx context.Context, name string) (*model.Member, error) {
	var member model.Member
	err := s.db.WithContext(ctx).
		Where("name = ? AND is_active = ?", canonicalName(name), true).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find member %q: %w", name, err)
	}
	return &member, nil
}

func (s *gormStore) FindMemberByCardID(ctx context.Context, uid string) (*model.Member, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, nil
	}

	var member model.Member
	err := s.db.WithContext(ctx).
		Joins("JOIN rfid_cards ON rfid_cards.member_id = members.id").
		Where("rfid_cards.uid = ? AND rfid_cards.is_active = ? AND members.is_active = ?", uid, true, true).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find member for card %q: %w", uid, err)
	}
	return &member, nil
}

// UpsertMember provisions a member and their card binding in one transaction.
// An existing member keeps their id (and therefore their event history).
func (s *gormStore) UpsertMember(ctx context.Context, name, cardUID, program string) error {
	name = canonicalName(name)
	cardUID = strings.TrimSpace(cardUID)
	if name == "" || cardUID == "" {
		return ErrValidation
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member := model.Member{Name: name, Program: program, IsActive: true}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"program", "is_active", "updated_at"}),
		}).Create(&member).Error; err != nil {
			return fmt.Errorf("failed to upsert member %q: %w", name, err)
		}

		if member.ID == 0 {
			// Conflict path on drivers that don't return the existing id.
			if err := tx.Where("name = ?", name).First(&member).Error; err != nil {
				return fmt.Errorf("failed to reload member %q: %w", name, err)
			}
		}

		card := model.RFIDCard{UID: cardUID, MemberID: member.ID, IsActive: true}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uid"}},
			DoUpdates: clause.AssignmentColumns([]string{"member_id", "is_active", "updated_at"}),
		}).Create(&card).Error; err != nil {
			return fmt.Errorf("failed to upsert card %q: %w", cardUID, err)
		}
		return nil
	})
}

func (s *gormStore) LatestEventFor(ctx context.Context, memberID int64) (*model.AttendanceEvent, error) {
	var event model.AttendanceEvent
	err := s.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("recorded_at DESC, id DESC").
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read latest event for member %d: %w", memberID, err)
	}
	return &event, nil
}

func (s *gormStore) EventsOn(ctx context.Context, day time.Time) ([]model.AttendanceEvent, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	var events []model.AttendanceEvent
	if err := s.db.WithContext(ctx).
		Where("recorded_at >= ? AND recorded_at < ?", start, end).
		Order("recorded_at ASC, id ASC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to read events on %s: %w", start.Format("2006-01-02"), err)
	}
	return events, nil
}

func (s *gormStore) AppendEvent(ctx context.Context, memberID int64, status model.Status, source model.Source, reason string) error {
	event := model.AttendanceEvent{
		MemberID:   memberID,
		Status:     status,
		Source:     source,
		Reason:     strings.TrimSpace(reason),
		RecordedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to append event for member %d: %w", memberID, err)
	}
	return nil
}

func (s *gormStore) LatestCenterInfo(ctx context.Context) (*model.CenterInfo, error) {
	var info model.CenterInfo
	err := s.db.WithContext(ctx).Order("id DESC").First(&info).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read center info: %w", err)
	}
	return &info, nil
}

func (s *gormStore) LatestGuest(ctx context.Context, name string) (*model.Guest, error) {
	query := s.db.WithContext(ctx).Order("id DESC")
	if name = strings.TrimSpace(name); name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	var guest model.Guest
	err := query.First(&guest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read guest: %w", err)
	}
	return &guest, nil
}

func (s *gormStore) OngoingProjectTitles(ctx context.Context) ([]string, error) {
	var titles []string
	if err := s.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("status = ?", "ONGOING").
		Order("id DESC").
		Pluck("title", &titles).Error; err != nil {
		return nil, fmt.Errorf("failed to list ongoing projects: %w", err)
	}
	return titles, nil
}

func (s *gormStore) FindProjectByTitle(ctx context.Context, title string) (*model.Project, error) {
	var project model.Project
	err := s.db.WithContext(ctx).
		Where("LOWER(title) LIKE ?", "%"+strings.ToLower(strings.TrimSpace(title))+"%").
		Order("id DESC").
		First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find project %q: %w", title, err)
	}
	return &project, nil
}

func canonicalName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
