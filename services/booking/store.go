package booking

import (
	"time"

	bookingModel "car-rental-booking/models/booking"
	carModel "car-rental-booking/models/car"
	catalogModel "car-rental-booking/models/catalog"
	topupModel "car-rental-booking/models/topup"
	userModel "car-rental-booking/models/user"
)

// Store is the persistence boundary of the booking engine. Every
// state-machine operation runs as one Transaction so that the
// read-validate-write sequence cannot interleave with a concurrent
// caller on the same record.
type Store interface {
	// Transaction runs fn against a transactional view of the store and
	// commits only if fn returns nil.
	Transaction(fn func(tx Store) error) error

	// LockCar serializes create/reschedule for one car until the
	// surrounding transaction ends, closing the check-then-write gap.
	LockCar(carID uint) error

	GetBooking(id uint) (*bookingModel.Booking, error)
	CreateBooking(b *bookingModel.Booking) error
	SaveBooking(b *bookingModel.Booking) error

	// HasOverlap reports whether another non-cancelled booking for the
	// car intersects [start, end] (inclusive boundaries). A non-zero
	// excludeBookingID is ignored in the scan, for reschedule.
	HasOverlap(carID uint, start, end time.Time, excludeBookingID uint) (bool, error)

	CreateBookingTopup(bt *bookingModel.BookingTopup) error
	CreateStatusEvent(ev *bookingModel.BookingStatusEvent) error

	ListBookingsByRenter(renterID uint) ([]bookingModel.Booking, error)
	// ListSiteBookingsBetween returns non-cancelled bookings whose
	// effective pickup or effective end falls inside [from, to] at the
	// given site.
	ListSiteBookingsBetween(parkingID uint, from, to time.Time) ([]bookingModel.Booking, error)

	GetCar(id uint) (*carModel.Car, error)
	GetCatalog(id uint) (*catalogModel.Catalog, error)
	GetUser(id uint) (*userModel.User, error)
	GetTopup(id uint) (*topupModel.Topup, error)
}
