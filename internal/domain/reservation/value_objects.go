package reservation

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinGuestNameLength       = 2
	MaxGuestNameLength       = 50
	MinTableSize             = 1
	MaxTableSize             = 20
	MaxSpecialRequestsLength = 500
	MaxReasonLength          = 200

	// Business hours: arrivals accepted from 10:00 up to but excluding 22:00.
	OpeningHour = 10
	ClosingHour = 22

	// ConflictWindow is the fixed double-booking policy: a user may not hold
	// two active reservations within this distance of each other.
	ConflictWindow = 2 * time.Hour
)

var (
	ErrGuestNameLength        = errors.New("guest name must be 2-50 characters")
	ErrInvalidPhoneNumber     = errors.New("invalid mobile phone number")
	ErrInvalidGuestEmail      = errors.New("invalid email address")
	ErrArrivalTimeNotFuture   = errors.New("arrival time must be in the future")
	ErrOutsideBusinessHours   = errors.New("arrival time must be within business hours (10:00-22:00)")
	ErrTableSizeOutOfRange    = errors.New("table size must be between 1 and 20")
	ErrSpecialRequestsTooLong = errors.New("special requests must be at most 500 characters")
	ErrEmptyReason            = errors.New("reason must not be empty")
	ErrReasonTooLong          = errors.New("reason must be at most 200 characters")
)

var (
	phoneRegex = regexp.MustCompile(`^1[3-9]\d{9}$`)
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

type GuestName struct {
	value string
}

func NewGuestName(s string) (GuestName, error) {
	s = strings.TrimSpace(s)
	if n := utf8.RuneCountInString(s); n < MinGuestNameLength || n > MaxGuestNameLength {
		return GuestName{}, ErrGuestNameLength
	}
	return GuestName{value: s}, nil
}

func (g GuestName) Value() string { return g.value }

type PhoneNumber struct {
	value string
}

func NewPhoneNumber(s string) (PhoneNumber, error) {
	s = strings.TrimSpace(s)
	if !phoneRegex.MatchString(s) {
		return PhoneNumber{}, ErrInvalidPhoneNumber
	}
	return PhoneNumber{value: s}, nil
}

func (p PhoneNumber) Value() string { return p.value }

type GuestEmail struct {
	value string
}

func NewGuestEmail(s string) (GuestEmail, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !emailRegex.MatchString(s) {
		return GuestEmail{}, ErrInvalidGuestEmail
	}
	return GuestEmail{value: s}, nil
}

func (e GuestEmail) Value() string { return e.value }

// ArrivalTime is validated against the clock and the restaurant's timezone
// at construction; a reconstructed value from the store skips validation.
type ArrivalTime struct {
	value time.Time
}

func NewArrivalTime(t, now time.Time, loc *time.Location) (ArrivalTime, error) {
	if !t.After(now) {
		return ArrivalTime{}, ErrArrivalTimeNotFuture
	}
	hour := t.In(loc).Hour()
	if hour < OpeningHour || hour >= ClosingHour {
		return ArrivalTime{}, ErrOutsideBusinessHours
	}
	return ArrivalTime{value: t}, nil
}

func ReconstructArrivalTime(t time.Time) ArrivalTime {
	return ArrivalTime{value: t}
}

func (a ArrivalTime) Value() time.Time { return a.value }

type TableSize struct {
	value int
}

func NewTableSize(n int) (TableSize, error) {
	if n < MinTableSize || n > MaxTableSize {
		return TableSize{}, ErrTableSizeOutOfRange
	}
	return TableSize{value: n}, nil
}

func (t TableSize) Value() int { return t.value }

type SpecialRequests struct {
	value string
}

func NewSpecialRequests(s string) (SpecialRequests, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > MaxSpecialRequestsLength {
		return SpecialRequests{}, ErrSpecialRequestsTooLong
	}
	return SpecialRequests{value: s}, nil
}

func (s SpecialRequests) Value() string { return s.value }
func (s SpecialRequests) IsEmpty() bool { return s.value == "" }

// Reason accompanies a status change; required and non-empty for cancellation.
type Reason struct {
	value string
}

func NewReason(s string) (Reason, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Reason{}, ErrEmptyReason
	}
	if utf8.RuneCountInString(s) > MaxReasonLength {
		return Reason{}, ErrReasonTooLong
	}
	return Reason{value: s}, nil
}

func (r Reason) Value() string { return r.value }
