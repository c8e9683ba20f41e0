package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resource-booking-backend/internal/booking"
	"resource-booking-backend/internal/model"
	"resource-booking-backend/internal/timeutil"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	CreateBooking(ctx context.Context, req CreateBookingRequest) (*model.Booking, error)
	GetBooking(ctx context.Context, id string) (*model.Booking, error)
	ListBookings(ctx context.Context, f BookingFilter) ([]model.Booking, error)
	ApproveBooking(ctx context.Context, id string, actor booking.Actor, notes string, now time.Time) (*model.Booking, error)
	RejectBooking(ctx context.Context, id string, actor booking.Actor, notes string, now time.Time) (*model.Booking, error)
	CancelBooking(ctx context.Context, id string, actor booking.Actor, now time.Time) (*model.Booking, error)
	RescheduleBooking(ctx context.Context, id, newDate, newStart, newEnd string, now time.Time) (*model.Booking, error)

	CreateResource(ctx context.Context, r *model.Resource) error
	GetResource(ctx context.Context, id int64) (*model.Resource, error)
	ListResources(ctx context.Context) ([]model.Resource, error)

	MarkRead(ctx context.Context, bookingID string, now time.Time) error
	MarkAllRead(ctx context.Context, now time.Time) (int64, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db  *gorm.DB
	loc *time.Location
}

// NewGormStore creates a new GORM-backed store. loc is the wall-clock
// location booking dates are interpreted in.
func NewGormStore(db *gorm.DB, loc *time.Location) Store {
	return &gormStore{db: db, loc: loc}
}

func (s *gormStore) DB() *gorm.DB { return s.db }

// slotRows selects the bookings that constrain a (resource, date) slot.
// On postgres the rows are locked so a concurrent create for the same
// slot blocks until this transaction commits; sqlite serializes writing
// transactions on its own, so the lock clause is omitted there.
func (s *gormStore) slotRows(tx *gorm.DB, resourceID int64, date string) *gorm.DB {
	q := tx.Model(&model.Booking{}).
		Where("resource_id = ? AND date = ? AND status IN ?",
			resourceID, date, []model.BookingStatus{model.StatusPending, model.StatusApproved})
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// CreateBooking validates the requested slot and persists the booking in
// a single transaction, so two concurrent requests for overlapping slots
// cannot both observe "no conflict" and both commit.
func (s *gormStore) CreateBooking(ctx context.Context, req CreateBookingRequest) (*model.Booking, error) {
	if _, err := timeutil.ParseDate(req.Date, s.loc); err != nil {
		return nil, err
	}

	var created *model.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res model.Resource
		if err := tx.First(&res, req.ResourceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return booking.ErrResourceNotFound
			}
			return fmt.Errorf("failed to load resource %d: %w", req.ResourceID, err)
		}

		var existing []model.Booking
		if err := s.slotRows(tx, req.ResourceID, req.Date).Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to load bookings for slot: %w", err)
		}
		if err := booking.Validate(req.StartTime, req.EndTime, existing, ""); err != nil {
			return err
		}

		b := &model.Booking{
			ID:           uuid.NewString(),
			ResourceID:   res.ID,
			ResourceKind: res.Kind,
			RequesterID:  req.RequesterID,
			Date:         req.Date,
			StartTime:    req.StartTime,
			EndTime:      req.EndTime,
			Status:       model.StatusPending,
			LastAction:   model.ActionCreated,
			Notes:        req.Notes,
		}
		if err := tx.Create(b).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *gormStore) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	var b model.Booking
	if err := s.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *gormStore) ListBookings(ctx context.Context, f BookingFilter) ([]model.Booking, error) {
	q := s.db.WithContext(ctx).Model(&model.Booking{})
	if f.ResourceID != 0 {
		q = q.Where("resource_id = ?", f.ResourceID)
	}
	if f.Date != "" {
		q = q.Where("date = ?", f.Date)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var out []model.Booking
	if err := q.Order("date DESC, start_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// mutateBooking loads a booking, applies a state machine mutation and
// saves the result, all inside one transaction.
func (s *gormStore) mutateBooking(ctx context.Context, id string, mutate func(tx *gorm.DB, b *model.Booking) error) (*model.Booking, error) {
	var out *model.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b model.Booking
		if err := tx.First(&b, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return booking.ErrNotFound
			}
			return err
		}
		if err := mutate(tx, &b); err != nil {
			return err
		}
		if err := tx.Save(&b).Error; err != nil {
			return fmt.Errorf("failed to save booking %s: %w", id, err)
		}
		out = &b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *gormStore) ApproveBooking(ctx context.Context, id string, actor booking.Actor, notes string, now time.Time) (*model.Booking, error) {
	return s.mutateBooking(ctx, id, func(_ *gorm.DB, b *model.Booking) error {
		return booking.Approve(b, actor, notes, now, s.loc)
	})
}

func (s *gormStore) RejectBooking(ctx context.Context, id string, actor booking.Actor, notes string, now time.Time) (*model.Booking, error) {
	return s.mutateBooking(ctx, id, func(_ *gorm.DB, b *model.Booking) error {
		return booking.Reject(b, actor, notes, now)
	})
}

func (s *gormStore) CancelBooking(ctx context.Context, id string, actor booking.Actor, now time.Time) (*model.Booking, error) {
	return s.mutateBooking(ctx, id, func(_ *gorm.DB, b *model.Booking) error {
		return booking.Cancel(b, actor, now)
	})
}

// RescheduleBooking re-runs conflict validation for the new slot inside
// the same transaction as the write, excluding the booking's own row.
func (s *gormStore) RescheduleBooking(ctx context.Context, id, newDate, newStart, newEnd string, now time.Time) (*model.Booking, error) {
	if _, err := timeutil.ParseDate(newDate, s.loc); err != nil {
		return nil, err
	}
	return s.mutateBooking(ctx, id, func(tx *gorm.DB, b *model.Booking) error {
		var existing []model.Booking
		if err := s.slotRows(tx, b.ResourceID, newDate).Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to load bookings for slot: %w", err)
		}
		if err := booking.Validate(newStart, newEnd, existing, b.ID); err != nil {
			return err
		}
		return booking.Reschedule(b, newDate, newStart, newEnd, now)
	})
}

func (s *gormStore) CreateResource(ctx context.Context, r *model.Resource) error {
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *gormStore) GetResource(ctx context.Context, id int64) (*model.Resource, error) {
	var r model.Resource
	if err := s.db.WithContext(ctx).First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrResourceNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (s *gormStore) ListResources(ctx context.Context) ([]model.Resource, error) {
	var out []model.Resource
	if err := s.db.WithContext(ctx).Order("kind, name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead acknowledges the notification for a booking. Marking an
// already-read booking again is a no-op. UpdateColumn keeps updated_at
// untouched so acknowledging never reclassifies the notification.
func (s *gormStore) MarkRead(ctx context.Context, bookingID string, now time.Time) error {
	res := s.db.WithContext(ctx).Model(&model.Booking{}).
		Where("id = ? AND read_at IS NULL", bookingID).
		UpdateColumn("read_at", now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.Booking{}).Where("id = ?", bookingID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return booking.ErrNotFound
		}
	}
	return nil
}

// MarkAllRead acknowledges every currently-unread booking and returns
// how many were affected.
func (s *gormStore) MarkAllRead(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&model.Booking{}).
		Where("read_at IS NULL").
		UpdateColumn("read_at", now)
	return res.RowsAffected, res.Error
}
