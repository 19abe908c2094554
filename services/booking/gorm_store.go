package booking

import (
	"errors"
	"time"

	"car-rental-booking/apperrors"
	bookingModel "car-rental-booking/models/booking"
	carModel "car-rental-booking/models/car"
	catalogModel "car-rental-booking/models/catalog"
	topupModel "car-rental-booking/models/topup"
	userModel "car-rental-booking/models/user"

	"gorm.io/gorm"
)

// GormStore is the PostgreSQL-backed Store.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store over the given gorm handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transaction(fn func(tx Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// LockCar takes a transaction-scoped advisory lock keyed by car id.
// Released automatically at commit or rollback.
func (s *GormStore) LockCar(carID uint) error {
	if err := s.db.Exec("SELECT pg_advisory_xact_lock(?)", int64(carID)).Error; err != nil {
		return apperrors.Internal("failed to lock car for booking", err)
	}
	return nil
}

func (s *GormStore) GetBooking(id uint) (*bookingModel.Booking, error) {
	var b bookingModel.Booking
	if err := s.db.First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("booking")
		}
		return nil, apperrors.Internal("failed to load booking", err)
	}
	return &b, nil
}

func (s *GormStore) CreateBooking(b *bookingModel.Booking) error {
	if err := s.db.Create(b).Error; err != nil {
		return apperrors.Internal("failed to create booking", err)
	}
	return nil
}

func (s *GormStore) SaveBooking(b *bookingModel.Booking) error {
	if err := s.db.Save(b).Error; err != nil {
		return apperrors.Internal("failed to save booking", err)
	}
	return nil
}

func (s *GormStore) HasOverlap(carID uint, start, end time.Time, excludeBookingID uint) (bool, error) {
	q := s.db.Model(&bookingModel.Booking{}).
		Where("car_id = ? AND status <> ?", carID, bookingModel.StatusCancelled).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeBookingID != 0 {
		q = q.Where("id <> ?", excludeBookingID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, apperrors.Internal("failed to check car availability", err)
	}
	return count > 0, nil
}

func (s *GormStore) CreateBookingTopup(bt *bookingModel.BookingTopup) error {
	if err := s.db.Create(bt).Error; err != nil {
		return apperrors.Internal("failed to record topup usage", err)
	}
	return nil
}

func (s *GormStore) CreateStatusEvent(ev *bookingModel.BookingStatusEvent) error {
	if err := s.db.Create(ev).Error; err != nil {
		return apperrors.Internal("failed to record status event", err)
	}
	return nil
}

func (s *GormStore) ListBookingsByRenter(renterID uint) ([]bookingModel.Booking, error) {
	var bookings []bookingModel.Booking
	err := s.db.Preload("Car").
		Where("renter_id = ?", renterID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list bookings", err)
	}
	return bookings, nil
}

func (s *GormStore) ListSiteBookingsBetween(parkingID uint, from, to time.Time) ([]bookingModel.Booking, error) {
	var bookings []bookingModel.Booking
	err := s.db.Preload("Car").Preload("Renter").
		Where("(pickup_parking_id = ? OR dropoff_parking_id = ?)", parkingID, parkingID).
		Where("status <> ?", bookingModel.StatusCancelled).
		Where("(COALESCE(pickup_date, start_date) BETWEEN ? AND ?) OR (COALESCE(extension_till, end_date) BETWEEN ? AND ?)",
			from, to, from, to).
		Order("start_date ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list site bookings", err)
	}
	return bookings, nil
}

func (s *GormStore) GetCar(id uint) (*carModel.Car, error) {
	var c carModel.Car
	if err := s.db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("car")
		}
		return nil, apperrors.Internal("failed to load car", err)
	}
	return &c, nil
}

func (s *GormStore) GetCatalog(id uint) (*catalogModel.Catalog, error) {
	var c catalogModel.Catalog
	if err := s.db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("catalog")
		}
		return nil, apperrors.Internal("failed to load catalog", err)
	}
	return &c, nil
}

func (s *GormStore) GetUser(id uint) (*userModel.User, error) {
	var u userModel.User
	if err := s.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, apperrors.Internal("failed to load user", err)
	}
	return &u, nil
}

func (s *GormStore) GetTopup(id uint) (*topupModel.Topup, error) {
	var t topupModel.Topup
	if err := s.db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("topup")
		}
		return nil, apperrors.Internal("failed to load topup", err)
	}
	return &t, nil
}
