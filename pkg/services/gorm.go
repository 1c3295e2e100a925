package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shiftworks/recon-api-go/pkg/database"
	"github.com/shiftworks/recon-api-go/pkg/models"
	"github.com/shiftworks/recon-api-go/pkg/recon"
)

// NewGormRegistry wires every collaborator to the shared gorm handle.
func NewGormRegistry(db *gorm.DB, session Session) *Registry {
	return &Registry{
		Attendance:   &gormAttendance{db: db},
		Slots:        &gormSlots{db: db},
		Assignments:  &gormAssignments{db: db, session: session},
		Members:      &gormMembers{db: db},
		BusinessDays: &gormBusinessDays{db: db},
	}
}

type gormAttendance struct {
	db *gorm.DB
}

func (s *gormAttendance) GetCollection(ctx context.Context, id string) (*models.Collection, error) {
	var rec database.CollectionRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &recon.NotFoundError{Resource: "collection", ID: id}
		}
		return nil, &recon.TransientError{Op: "get collection", Err: err}
	}

	var dates []database.TargetDateRecord
	if err := s.db.WithContext(ctx).
		Where("collection_id = ?", id).
		Order("display_order asc").
		Find(&dates).Error; err != nil {
		return nil, &recon.TransientError{Op: "list target dates", Err: err}
	}

	col := &models.Collection{ID: rec.ID, EventID: rec.EventID, Title: rec.Title}
	for _, d := range dates {
		col.Dates = append(col.Dates, models.TargetDate{
			ID:           d.ID,
			Date:         d.Date,
			DisplayOrder: d.DisplayOrder,
		})
	}
	return col, nil
}

func (s *gormAttendance) GetResponses(ctx context.Context, collectionID string) ([]models.AttendanceResponse, error) {
	var recs []database.ResponseRecord
	if err := s.db.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Find(&recs).Error; err != nil {
		return nil, &recon.TransientError{Op: "list responses", Err: err}
	}

	out := make([]models.AttendanceResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.AttendanceResponse{
			MemberID:     r.MemberID,
			TargetDateID: r.TargetDateID,
			Value:        models.ResponseValue(r.Value),
			TimeFrom:     r.TimeFrom,
			TimeTo:       r.TimeTo,
			Note:         r.Note,
			RespondedAt:  r.RespondedAt,
		})
	}
	return out, nil
}

type gormSlots struct {
	db *gorm.DB
}

func (s *gormSlots) ListSlots(ctx context.Context, businessDayID string) ([]models.ShiftSlot, error) {
	var recs []database.SlotRecord
	if err := s.db.WithContext(ctx).
		Where("business_day_id = ?", businessDayID).
		Find(&recs).Error; err != nil {
		return nil, &recon.TransientError{Op: "list slots", Err: err}
	}

	out := make([]models.ShiftSlot, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.ShiftSlot{
			ID:            r.ID,
			BusinessDayID: r.BusinessDayID,
			InstanceID:    r.InstanceID,
			InstanceName:  r.InstanceName,
			RequiredCount: r.RequiredCount,
			Priority:      r.Priority,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
		})
	}
	return out, nil
}

type gormAssignments struct {
	db      *gorm.DB
	session Session
}

func (s *gormAssignments) ListAssignments(ctx context.Context, f AssignmentFilter) ([]models.ShiftAssignment, error) {
	q := s.db.WithContext(ctx).Model(&database.AssignmentRecord{})
	if len(f.SlotIDs) > 0 {
		q = q.Where("slot_id IN ?", f.SlotIDs)
	}
	if f.MemberID != "" {
		q = q.Where("member_id = ?", f.MemberID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}

	var recs []database.AssignmentRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, &recon.TransientError{Op: "list assignments", Err: err}
	}

	out := make([]models.ShiftAssignment, 0, len(recs))
	for _, r := range recs {
		out = append(out, assignmentFromRecord(r))
	}
	return out, nil
}

// Create inserts a confirmed assignment after re-checking capacity inside
// a transaction. The capacity check here is the authoritative one; the
// mutator's precheck is only a fast-fail against stale state.
func (s *gormAssignments) Create(ctx context.Context, slotID, memberID, note string) (*models.ShiftAssignment, error) {
	rec := database.AssignmentRecord{
		ID:        uuid.NewString(),
		SlotID:    slotID,
		MemberID:  memberID,
		Status:    string(models.AssignmentConfirmed),
		Note:      note,
		CreatedBy: s.session.ActorID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var slot database.SlotRecord
		if err := tx.First(&slot, "id = ?", slotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &recon.NotFoundError{Resource: "slot", ID: slotID}
			}
			return err
		}

		var confirmed int64
		if err := tx.Model(&database.AssignmentRecord{}).
			Where("slot_id = ? AND status = ?", slotID, string(models.AssignmentConfirmed)).
			Count(&confirmed).Error; err != nil {
			return err
		}
		if confirmed >= int64(slot.RequiredCount) {
			return &recon.ConflictError{SlotID: slotID, Reason: "slot is at required count"}
		}

		return tx.Create(&rec).Error
	})
	if err != nil {
		var conflict *recon.ConflictError
		var notFound *recon.NotFoundError
		if errors.As(err, &conflict) || errors.As(err, &notFound) {
			return nil, err
		}
		return nil, &recon.TransientError{Op: "create assignment", Err: err}
	}

	a := assignmentFromRecord(rec)
	return &a, nil
}

// Cancel flips a confirmed assignment to cancelled. Cancelling an
// already-cancelled assignment succeeds without effect, so a lost cancel
// race with another session is invisible to the caller.
func (s *gormAssignments) Cancel(ctx context.Context, assignmentID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec database.AssignmentRecord
		if err := tx.First(&rec, "id = ?", assignmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &recon.NotFoundError{Resource: "assignment", ID: assignmentID}
			}
			return err
		}
		if rec.Status == string(models.AssignmentCancelled) {
			return nil
		}

		now := time.Now()
		return tx.Model(&rec).Updates(map[string]interface{}{
			"status":       string(models.AssignmentCancelled),
			"cancelled_at": &now,
		}).Error
	})
	if err != nil {
		var notFound *recon.NotFoundError
		if errors.As(err, &notFound) {
			return err
		}
		return &recon.TransientError{Op: "cancel assignment", Err: err}
	}
	return nil
}

func assignmentFromRecord(r database.AssignmentRecord) models.ShiftAssignment {
	return models.ShiftAssignment{
		ID:       r.ID,
		SlotID:   r.SlotID,
		MemberID: r.MemberID,
		Status:   models.AssignmentStatus(r.Status),
		Note:     r.Note,
	}
}

type gormMembers struct {
	db *gorm.DB
}

func (s *gormMembers) ListActiveMembers(ctx context.Context) ([]models.Member, error) {
	var recs []database.MemberRecord
	if err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Find(&recs).Error; err != nil {
		return nil, &recon.TransientError{Op: "list members", Err: err}
	}

	var links []database.MemberRoleRecord
	if err := s.db.WithContext(ctx).Find(&links).Error; err != nil {
		return nil, &recon.TransientError{Op: "list member roles", Err: err}
	}
	rolesByMember := make(map[string][]string)
	for _, l := range links {
		rolesByMember[l.MemberID] = append(rolesByMember[l.MemberID], l.RoleID)
	}

	out := make([]models.Member, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.Member{
			ID:      r.ID,
			Name:    r.Name,
			RoleIDs: rolesByMember[r.ID],
		})
	}
	return out, nil
}

func (s *gormMembers) ListRoles(ctx context.Context) ([]models.Role, error) {
	var recs []database.RoleRecord
	if err := s.db.WithContext(ctx).
		Order("display_order asc").
		Find(&recs).Error; err != nil {
		return nil, &recon.TransientError{Op: "list roles", Err: err}
	}

	out := make([]models.Role, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.Role{
			ID:           r.ID,
			Name:         r.Name,
			Color:        r.Color,
			DisplayOrder: r.DisplayOrder,
		})
	}
	return out, nil
}

type gormBusinessDays struct {
	db *gorm.DB
}

func (s *gormBusinessDays) ListBusinessDays(ctx context.Context, eventID string) ([]models.BusinessDay, error) {
	var recs []database.BusinessDayRecord
	if err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Find(&recs).Error; err != nil {
		return nil, &recon.TransientError{Op: "list business days", Err: err}
	}

	out := make([]models.BusinessDay, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.BusinessDay{
			ID:        r.ID,
			EventID:   r.EventID,
			Date:      r.Date,
			OpenTime:  r.OpenTime,
			CloseTime: r.CloseTime,
		})
	}
	return out, nil
}
