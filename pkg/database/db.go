package database

import (
	"log/slog"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MemberRecord represents the members table
type MemberRecord struct {
	ID     string `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"not null" json:"name"`
	Active bool   `gorm:"default:true" json:"active"`
}

func (MemberRecord) TableName() string { return "members" }

// MemberRoleRecord links members to roles
type MemberRoleRecord struct {
	MemberID string `gorm:"primaryKey" json:"member_id"`
	RoleID   string `gorm:"primaryKey" json:"role_id"`
}

func (MemberRoleRecord) TableName() string { return "member_roles" }

// RoleRecord represents the roles table
type RoleRecord struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Color        string `json:"color"`
	DisplayOrder int    `gorm:"default:0" json:"display_order"`
}

func (RoleRecord) TableName() string { return "roles" }

// CollectionRecord represents one attendance collection
type CollectionRecord struct {
	ID      string `gorm:"primaryKey" json:"id"`
	EventID string `gorm:"index;not null" json:"event_id"`
	Title   string `json:"title"`
}

func (CollectionRecord) TableName() string { return "collections" }

// TargetDateRecord represents a date under collection
type TargetDateRecord struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	CollectionID string    `gorm:"index;not null" json:"collection_id"`
	Date         time.Time `gorm:"not null" json:"date"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
}

func (TargetDateRecord) TableName() string { return "target_dates" }

// ResponseRecord represents one attendance answer. Overwrites insert a
// new row; aggregation resolves the current one by responded_at.
type ResponseRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CollectionID string    `gorm:"index;not null" json:"collection_id"`
	MemberID     string    `gorm:"index;not null" json:"member_id"`
	TargetDateID string    `gorm:"index;not null" json:"target_date_id"`
	Value        string    `gorm:"not null" json:"value"`
	TimeFrom     string    `json:"time_from"`
	TimeTo       string    `json:"time_to"`
	Note         string    `json:"note"`
	RespondedAt  time.Time `gorm:"not null" json:"responded_at"`
}

func (ResponseRecord) TableName() string { return "attendance_responses" }

// BusinessDayRecord represents an operating day
type BusinessDayRecord struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	EventID   string    `gorm:"index;not null" json:"event_id"`
	Date      time.Time `gorm:"not null" json:"date"`
	OpenTime  string    `json:"open_time"`
	CloseTime string    `json:"close_time"`
}

func (BusinessDayRecord) TableName() string { return "business_days" }

// SlotRecord represents a shift slot within a business day
type SlotRecord struct {
	ID            string `gorm:"primaryKey" json:"id"`
	BusinessDayID string `gorm:"index;not null" json:"business_day_id"`
	InstanceID    string `gorm:"index" json:"instance_id"`
	InstanceName  string `json:"instance_name"`
	RequiredCount int    `gorm:"not null" json:"required_count"`
	Priority      int    `gorm:"default:0" json:"priority"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
}

func (SlotRecord) TableName() string { return "shift_slots" }

// AssignmentRecord represents a member-slot binding. Cancelled rows are
// retained; status never returns to confirmed.
type AssignmentRecord struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	SlotID      string     `gorm:"index;not null" json:"slot_id"`
	MemberID    string     `gorm:"index;not null" json:"member_id"`
	Status      string     `gorm:"not null" json:"status"`
	Note        string     `json:"note"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
}

func (AssignmentRecord) TableName() string { return "shift_assignments" }

// APIKey represents the api_keys table
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"key"`
	Name       string     `gorm:"not null" json:"name"`
	KeyPreview string     `json:"key_preview"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table
type APIUsage struct {
	ID                   uint   `gorm:"primaryKey" json:"id"`
	KeyID                uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date                 string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount         int    `gorm:"default:0" json:"request_count"`
	AssignmentsCreated   int    `gorm:"default:0" json:"assignments_created"`
	AssignmentsCancelled int    `gorm:"default:0" json:"assignments_cancelled"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Open connects to the configured database and migrates the schema.
// A non-empty DSN selects postgres; otherwise a local sqlite file.
func Open(dsn, sqlitePath string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		if sqlitePath == "" {
			sqlitePath = "recon.db"
		}
		db, err = gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{})
	}
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&MemberRecord{}, &MemberRoleRecord{}, &RoleRecord{},
		&CollectionRecord{}, &TargetDateRecord{}, &ResponseRecord{},
		&BusinessDayRecord{}, &SlotRecord{}, &AssignmentRecord{},
		&APIKey{}, &APIUsage{}, &MasterUser{},
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// MustOpen is Open for entrypoints that cannot proceed without storage.
func MustOpen(dsn, sqlitePath string) *gorm.DB {
	db, err := Open(dsn, sqlitePath)
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	return db
}
