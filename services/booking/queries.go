package booking

import (
	"car-rental-booking/apperrors"
	"car-rental-booking/constants"
	bookingModel "car-rental-booking/models/booking"

	"github.com/jinzhu/now"
)

// GetBooking returns one booking, visible to its renter, an admin, or
// the PIC of either of its sites.
func (s *Service) GetBooking(actorID, bookingID uint) (*bookingModel.Booking, error) {
	var result *bookingModel.Booking
	err := s.store.Transaction(func(tx Store) error {
		actor, err := tx.GetUser(actorID)
		if err != nil {
			return err
		}
		b, err := tx.GetBooking(bookingID)
		if err != nil {
			return err
		}
		if !capabilityFor(actor, b).canRead() {
			return apperrors.Forbidden("you are not allowed to view this booking")
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListMyBookings returns the caller's bookings, newest first.
func (s *Service) ListMyBookings(actorID uint) ([]bookingModel.Booking, error) {
	return s.store.ListBookingsByRenter(actorID)
}

// ListSiteToday returns the acting PIC's bookings with a pickup or a
// return due today at their assigned site.
func (s *Service) ListSiteToday(actorID uint) ([]bookingModel.Booking, error) {
	actor, err := s.store.GetUser(actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != constants.RolePIC || actor.ParkingID == nil {
		return nil, apperrors.Forbidden("only a site controller can view the site schedule")
	}

	today := now.With(s.Now())
	return s.store.ListSiteBookingsBetween(*actor.ParkingID, today.BeginningOfDay(), today.EndOfDay())
}
