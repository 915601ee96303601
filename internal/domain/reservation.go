package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusActive    ReservationStatus = "ACTIVE"
	ReservationStatusCompleted ReservationStatus = "COMPLETED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusDeclined  ReservationStatus = "DECLINED"
)

// IsTerminal reports whether the status has no outgoing transitions.
func (s ReservationStatus) IsTerminal() bool {
	switch s {
	case ReservationStatusCompleted, ReservationStatusCancelled, ReservationStatusDeclined:
		return true
	}
	return false
}

// BlockingStatuses are the states in which a reservation holds its date range
// against approval of any overlapping request.
var BlockingStatuses = []ReservationStatus{
	ReservationStatusConfirmed,
	ReservationStatusActive,
}

const DateLayout = "2006-01-02"

// DateRange is an inclusive calendar-date range. Start and End are midnight
// UTC; use NewDateRange or ParseDateRange to construct one.
type DateRange struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: truncateToDay(start), End: truncateToDay(end)}
}

func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, NewValidationError("invalid start date, want YYYY-MM-DD")
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, NewValidationError("invalid end date, want YYYY-MM-DD")
	}
	return DateRange{Start: s, End: e}, nil
}

// Days is the inclusive span in days. Inverted ranges yield values <= 0.
func (r DateRange) Days() int32 {
	return int32(r.End.Sub(r.Start).Hours()/24) + 1
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is the current calendar date at midnight UTC.
func Today(now time.Time) time.Time {
	return truncateToDay(now)
}

type Reservation struct {
	ID         int32             `json:"id"`
	ToolID     int32             `json:"tool_id"`
	BorrowerID int32             `json:"borrower_id"`
	OwnerID    int32             `json:"owner_id"`
	Status     ReservationStatus `json:"status"`
	DateRange

	// Note is borrower-authored at creation; OwnerNote is set by approve or
	// decline (required for decline).
	Note      string `json:"note"`
	OwnerNote string `json:"owner_note"`

	PickupConfirmedAt *time.Time `json:"pickup_confirmed_at,omitempty"`
	ReturnConfirmedAt *time.Time `json:"return_confirmed_at,omitempty"`
	CreatedOn         time.Time  `json:"created_on"`
	UpdatedOn         time.Time  `json:"updated_on"`
}

type Notification struct {
	ID            int32     `json:"id"`
	UserID        int32     `json:"user_id"`
	ReservationID int32     `json:"reservation_id"`
	EventType     string    `json:"event_type"`
	Message       string    `json:"message"`
	IsRead        bool      `json:"is_read"`
	CreatedOn     time.Time `json:"created_on"`
}

// Notification event types emitted on successful transitions.
const (
	EventRequestCreated       = "REQUEST_CREATED"
	EventRequestApproved      = "REQUEST_APPROVED"
	EventRequestDeclined      = "REQUEST_DECLINED"
	EventReservationCancelled = "RESERVATION_CANCELLED"
	EventPickupConfirmed      = "PICKUP_CONFIRMED"
	EventReturnConfirmed      = "RETURN_CONFIRMED"
	EventReturnOverdue        = "RETURN_OVERDUE"
	EventRequestLapsed        = "REQUEST_LAPSED"
)
