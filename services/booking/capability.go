package booking

import (
	bookingModel "car-rental-booking/models/booking"
	userModel "car-rental-booking/models/user"
)

// capability is the actor's relationship to one booking, evaluated once
// per operation instead of scattering role conditionals.
type capability struct {
	actor   *userModel.User
	booking *bookingModel.Booking
}

func capabilityFor(actor *userModel.User, b *bookingModel.Booking) capability {
	return capability{actor: actor, booking: b}
}

func (c capability) isOwner() bool {
	return c.booking != nil && c.actor.ID == c.booking.RenterID
}

func (c capability) isAdmin() bool {
	return c.actor.IsAdmin()
}

// isPICForPickupSite matches the actor against the booking's pickup
// site; handover operations (approval, code check, pickup) happen there.
func (c capability) isPICForPickupSite() bool {
	return c.booking != nil && c.actor.IsPICForSite(c.booking.PickupParkingID)
}

// isPICForDropoffSite matches the actor against the booking's dropoff
// site; return confirmation happens there.
func (c capability) isPICForDropoffSite() bool {
	return c.booking != nil && c.actor.IsPICForSite(c.booking.DropoffParkingID)
}

func (c capability) canManage() bool {
	return c.isOwner() || c.isAdmin()
}

func (c capability) canRead() bool {
	return c.isOwner() || c.isAdmin() || c.isPICForPickupSite() || c.isPICForDropoffSite()
}
