package booking

// Status is the booking lifecycle state.
type Status string

const (
	StatusPending     Status = "pending"
	StatusAdvancePaid Status = "advance_paid"
	StatusConfirmed   Status = "confirmed"
	StatusActive      Status = "active"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAdvancePaid, StatusConfirmed, StatusActive, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsFinal returns true once no further transitions are allowed.
func (s Status) IsFinal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// BlocksAvailability reports whether a booking in this status keeps the
// car occupied for overlap checks.
func (s Status) BlocksAvailability() bool {
	return s != StatusCancelled
}

// ConfirmationStatus tracks the condition-evidence review flow.
type ConfirmationStatus string

const (
	ConfirmationPending         ConfirmationStatus = "pending"
	ConfirmationPendingApproval ConfirmationStatus = "pending_approval"
	ConfirmationApproved        ConfirmationStatus = "approved"
	ConfirmationRejected        ConfirmationStatus = "rejected"
)

func (cs ConfirmationStatus) String() string {
	return string(cs)
}

func (cs ConfirmationStatus) IsValid() bool {
	switch cs {
	case ConfirmationPending, ConfirmationPendingApproval, ConfirmationApproved, ConfirmationRejected:
		return true
	default:
		return false
	}
}

// PaymentStatus tracks one installment.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

func (ps PaymentStatus) String() string {
	return string(ps)
}
