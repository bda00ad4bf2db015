package infrastructure

import (
	"context"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"travelbooking/internal/pkg/logger"
	"travelbooking/internal/pkg/pagination"
	"travelbooking/internal/service/booking/domain"
	"travelbooking/internal/service/booking/domain/port"
)

const (
	maxCodeAttempts     = 3
	mysqlDuplicateEntry = 1062
)

// GormBookingRepository is the MySQL Booking Store.
type GormBookingRepository struct {
	db    *gorm.DB
	codes port.CodeGenerator
}

func NewGormBookingRepository(db *gorm.DB, codes port.CodeGenerator) *GormBookingRepository {
	return &GormBookingRepository{db: db, codes: codes}
}

// Create inserts the booking and its item in one transaction. A booking code
// collision regenerates the code, up to maxCodeAttempts times.
func (r *GormBookingRepository) Create(ctx context.Context, b *domain.Booking) (uint64, error) {
	var lastErr error
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := r.codes.NextCode(ctx)
		if err != nil {
			return 0, errors.Wrap(err, "generate booking code")
		}
		b.BookingCode = code

		model, item := fromDomainBooking(b)
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit("Item").Create(model).Error; err != nil {
				return err
			}
			item.BookingID = model.ID
			return tx.Create(item).Error
		})
		if err == nil {
			b.ID = model.ID
			b.CreatedAt = model.CreatedAt
			b.UpdatedAt = model.UpdatedAt
			return model.ID, nil
		}
		if !isDuplicateKey(err) {
			return 0, errors.Wrap(err, "insert booking")
		}
		lastErr = err
		logger.Ctx(ctx).Warn().Str("booking_code", code).Int("attempt", attempt).Msg("Booking code collision, regenerating")
	}
	return 0, errors.Wrapf(lastErr, "insert booking: code collision after %d attempts", maxCodeAttempts)
}

func (r *GormBookingRepository) FindByID(ctx context.Context, id uint64) (*domain.Booking, error) {
	var model BookingModel
	err := r.db.WithContext(ctx).Preload("Item").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, errors.Wrapf(err, "find booking %d", id)
	}
	return toDomainBooking(&model), nil
}

func (r *GormBookingRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	var models []*BookingModel
	err := r.db.WithContext(ctx).Preload("Item").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrapf(err, "find bookings of user %s", userID)
	}
	return toDomainBookings(models), nil
}

func (r *GormBookingRepository) List(ctx context.Context, page pagination.Params) (*domain.BookingPage, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, errors.Wrap(err, "count bookings")
	}

	var models []*BookingModel
	err := r.db.WithContext(ctx).Preload("Item").
		Order(defaultOrder).
		Limit(page.Limit).Offset(page.Offset()).
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "list bookings")
	}
	return &domain.BookingPage{Items: toDomainBookings(models), Pagination: pagination.NewMeta(page, total)}, nil
}

// Filter runs the criteria over bookings LEFT JOIN booking_items. Each booking
// has at most one item row (unique booking_id), so the join never duplicates a
// booking and the page can be ordered by item columns. The count and the page
// come from the same WHERE clause.
func (r *GormBookingRepository) Filter(ctx context.Context, criteria domain.FilterCriteria, page pagination.Params) (*domain.BookingPage, error) {
	conds, err := filterConditions(criteria)
	if err != nil {
		return nil, err
	}

	base := r.db.WithContext(ctx).Model(&BookingModel{}).
		Joins("LEFT JOIN booking_items ON booking_items.booking_id = bookings.id")
	for _, c := range conds {
		base = base.Where(c.query, c.args...)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, errors.Wrap(err, "count filtered bookings")
	}

	var models []*BookingModel
	err = base.Session(&gorm.Session{}).
		Select("bookings.*").
		Preload("Item").
		Order(orderClause(criteria.SortBy, criteria.SortOrder)).
		Limit(page.Limit).Offset(page.Offset()).
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "filter bookings")
	}
	return &domain.BookingPage{Items: toDomainBookings(models), Pagination: pagination.NewMeta(page, total)}, nil
}

// UpdateStatus changes the lifecycle status. Cancelling is conditional on the
// row still being confirmed, so only one of several concurrent cancels wins.
func (r *GormBookingRepository) UpdateStatus(ctx context.Context, id uint64, status domain.Status) (int64, error) {
	query := r.db.WithContext(ctx).Model(&BookingModel{}).Where("id = ?", id)
	if status == domain.StatusCancelled {
		query = query.Where("status = ?", string(domain.StatusConfirmed))
	}
	result := query.Updates(map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return 0, errors.Wrapf(result.Error, "update status of booking %d", id)
	}
	return result.RowsAffected, nil
}

func (r *GormBookingRepository) UpdatePaymentStatus(ctx context.Context, id uint64, status domain.PaymentStatus) (int64, error) {
	result := r.db.WithContext(ctx).Model(&BookingModel{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_status": string(status),
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, errors.Wrapf(result.Error, "update payment status of booking %d", id)
	}
	return result.RowsAffected, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysqldriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
