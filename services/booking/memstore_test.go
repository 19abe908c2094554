package booking

import (
	"sync"
	"time"

	"car-rental-booking/apperrors"
	bookingModel "car-rental-booking/models/booking"
	carModel "car-rental-booking/models/car"
	catalogModel "car-rental-booking/models/catalog"
	topupModel "car-rental-booking/models/topup"
	userModel "car-rental-booking/models/user"
)

// memStore is an in-memory Store for exercising the state machine
// without a database. Transactions are flat: GetBooking hands out a
// copy and SaveBooking writes it back, so a failed operation leaves
// the stored record untouched just like a rolled-back transaction.
type memStore struct {
	mu sync.Mutex

	bookings map[uint]*bookingModel.Booking
	users    map[uint]*userModel.User
	cars     map[uint]*carModel.Car
	catalogs map[uint]*catalogModel.Catalog
	topups   map[uint]*topupModel.Topup

	topupRows []bookingModel.BookingTopup
	events    []bookingModel.BookingStatusEvent

	nextBookingID uint
	lockedCars    []uint
}

func newMemStore() *memStore {
	return &memStore{
		bookings: make(map[uint]*bookingModel.Booking),
		users:    make(map[uint]*userModel.User),
		cars:     make(map[uint]*carModel.Car),
		catalogs: make(map[uint]*catalogModel.Catalog),
		topups:   make(map[uint]*topupModel.Topup),
	}
}

func (s *memStore) Transaction(fn func(tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

func (s *memStore) LockCar(carID uint) error {
	s.lockedCars = append(s.lockedCars, carID)
	return nil
}

func (s *memStore) GetBooking(id uint) (*bookingModel.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, apperrors.NotFound("booking")
	}
	clone := *b
	return &clone, nil
}

func (s *memStore) CreateBooking(b *bookingModel.Booking) error {
	s.nextBookingID++
	b.ID = s.nextBookingID
	clone := *b
	s.bookings[b.ID] = &clone
	return nil
}

func (s *memStore) SaveBooking(b *bookingModel.Booking) error {
	if _, ok := s.bookings[b.ID]; !ok {
		return apperrors.NotFound("booking")
	}
	clone := *b
	s.bookings[b.ID] = &clone
	return nil
}

func (s *memStore) HasOverlap(carID uint, start, end time.Time, excludeBookingID uint) (bool, error) {
	for _, b := range s.bookings {
		if b.CarID != carID || b.ID == excludeBookingID {
			continue
		}
		if b.Status == bookingModel.StatusCancelled {
			continue
		}
		if !b.StartDate.After(end) && !b.EndDate.Before(start) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) CreateBookingTopup(bt *bookingModel.BookingTopup) error {
	bt.ID = uint(len(s.topupRows) + 1)
	s.topupRows = append(s.topupRows, *bt)
	return nil
}

func (s *memStore) CreateStatusEvent(ev *bookingModel.BookingStatusEvent) error {
	ev.ID = uint(len(s.events) + 1)
	s.events = append(s.events, *ev)
	return nil
}

func (s *memStore) ListBookingsByRenter(renterID uint) ([]bookingModel.Booking, error) {
	var out []bookingModel.Booking
	for _, b := range s.bookings {
		if b.RenterID == renterID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memStore) ListSiteBookingsBetween(parkingID uint, from, to time.Time) ([]bookingModel.Booking, error) {
	var out []bookingModel.Booking
	for _, b := range s.bookings {
		if b.Status == bookingModel.StatusCancelled {
			continue
		}
		pickup := b.EffectivePickupDate()
		end := b.EffectiveEndDate()
		pickupDue := b.PickupParkingID == parkingID && !pickup.Before(from) && !pickup.After(to)
		returnDue := b.DropoffParkingID == parkingID && !end.Before(from) && !end.After(to)
		if pickupDue || returnDue {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memStore) GetCar(id uint) (*carModel.Car, error) {
	c, ok := s.cars[id]
	if !ok {
		return nil, apperrors.NotFound("car")
	}
	return c, nil
}

func (s *memStore) GetCatalog(id uint) (*catalogModel.Catalog, error) {
	c, ok := s.catalogs[id]
	if !ok {
		return nil, apperrors.NotFound("catalog")
	}
	return c, nil
}

func (s *memStore) GetUser(id uint) (*userModel.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	return u, nil
}

func (s *memStore) GetTopup(id uint) (*topupModel.Topup, error) {
	t, ok := s.topups[id]
	if !ok {
		return nil, apperrors.NotFound("topup")
	}
	return t, nil
}

// scriptedCodes returns a fixed sequence of verification codes.
type scriptedCodes struct {
	codes []string
	next  int
}

func (sc *scriptedCodes) GenerateCode() (string, error) {
	code := sc.codes[sc.next%len(sc.codes)]
	sc.next++
	return code, nil
}
