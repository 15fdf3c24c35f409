package queries

import (
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	SortByArrivalTime = "arrival_time"
	SortByCreatedAt   = "created_at"
)

var ErrInvalidQuery = errs.New("invalid query parameters")

// ReservationView is the full read model returned for a single reservation,
// including its status history.
type ReservationView struct {
	ID                 uuid.UUID          `json:"id"`
	UserID             uuid.UUID          `json:"user_id"`
	GuestName          string             `json:"guest_name"`
	PhoneNumber        string             `json:"phone_number"`
	Email              string             `json:"email"`
	ArrivalTime        time.Time          `json:"arrival_time"`
	TableSize          int                `json:"table_size"`
	Status             string             `json:"status"`
	SpecialRequests    string             `json:"special_requests,omitempty"`
	CancellationReason *string            `json:"cancellation_reason,omitempty"`
	CanEdit            bool               `json:"can_edit"`
	CanCancel          bool               `json:"can_cancel"`
	StatusHistory      []StatusChangeView `json:"status_history"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// StatusAllowsChanges mirrors the domain rule that only active reservations
// may still be edited or cancelled. Read models derive their canEdit and
// canCancel projections from it; the flags are never stored.
func StatusAllowsChanges(status string) bool {
	return reservation.Status(status).IsActive()
}

type StatusChangeView struct {
	Status    string     `json:"status"`
	Reason    *string    `json:"reason,omitempty"`
	ChangedAt time.Time  `json:"changed_at"`
	ChangedBy *uuid.UUID `json:"changed_by,omitempty"`
}

type ReservationListItem struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	UserEmail   string    `json:"user_email"`
	GuestName   string    `json:"guest_name"`
	PhoneNumber string    `json:"phone_number"`
	ArrivalTime time.Time `json:"arrival_time"`
	TableSize   int       `json:"table_size"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuthorizedUserView represents read-optimized user data with authorization info
type AuthorizedUserView struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ListQuery is the raw, unvalidated query-string input for reservation
// listings.
type ListQuery struct {
	Page      int
	Limit     int
	Status    string
	UserID    string
	Search    string
	StartDate string
	EndDate   string
	SortBy    string
	SortOrder string
}

// ListOptions carries validated pagination, filtering and ordering for
// reservation listings.
type ListOptions struct {
	Page     int
	Limit    int
	Status   *string
	UserID   *uuid.UUID
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
	SortBy   string
	SortDesc bool
}

const listDateLayout = "2006-01-02"

// NewListOptions validates raw query input. Zero page and limit fall back to
// defaults; anything out of range is rejected rather than clamped. The
// endDate is inclusive of the whole day.
func NewListOptions(q ListQuery) (ListOptions, error) {
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.Page < 1 {
		return ListOptions{}, errs.Wrap(ErrInvalidQuery, "page must be at least 1")
	}
	if q.Limit < 1 || q.Limit > MaxLimit {
		return ListOptions{}, errs.Wrap(ErrInvalidQuery, "limit must be between 1 and 100")
	}

	opts := ListOptions{Page: q.Page, Limit: q.Limit, SortBy: SortByArrivalTime, Search: q.Search}

	if q.Status != "" {
		opts.Status = &q.Status
	}

	if q.UserID != "" {
		id, err := uuid.Parse(q.UserID)
		if err != nil {
			return ListOptions{}, errs.Wrap(ErrInvalidQuery, "userId must be a valid UUID")
		}
		opts.UserID = &id
	}

	if q.StartDate != "" {
		from, err := time.Parse(listDateLayout, q.StartDate)
		if err != nil {
			return ListOptions{}, errs.Wrap(ErrInvalidQuery, "startDate must be formatted as YYYY-MM-DD")
		}
		opts.DateFrom = &from
	}
	if q.EndDate != "" {
		end, err := time.Parse(listDateLayout, q.EndDate)
		if err != nil {
			return ListOptions{}, errs.Wrap(ErrInvalidQuery, "endDate must be formatted as YYYY-MM-DD")
		}
		to := end.AddDate(0, 0, 1)
		opts.DateTo = &to
	}
	if opts.DateFrom != nil && opts.DateTo != nil && !opts.DateFrom.Before(*opts.DateTo) {
		return ListOptions{}, errs.Wrap(ErrInvalidQuery, "startDate must not be after endDate")
	}

	switch q.SortBy {
	case "":
	case SortByArrivalTime, SortByCreatedAt:
		opts.SortBy = q.SortBy
	default:
		return ListOptions{}, errs.Wrap(ErrInvalidQuery, "unsupported sort field")
	}

	switch q.SortOrder {
	case "", "desc":
		opts.SortDesc = true
	case "asc":
	default:
		return ListOptions{}, errs.Wrap(ErrInvalidQuery, "sort order must be asc or desc")
	}

	return opts, nil
}

func (o ListOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}

// PagedReservations is the pagination envelope for reservation listings.
type PagedReservations struct {
	Items       []*ReservationListItem `json:"items"`
	Page        int                    `json:"page"`
	Limit       int                    `json:"limit"`
	Total       int64                  `json:"total"`
	TotalPages  int64                  `json:"total_pages"`
	HasNextPage bool                   `json:"has_next_page"`
	HasPrevPage bool                   `json:"has_prev_page"`
}

func NewPagedReservations(items []*ReservationListItem, page, limit int, total int64) *PagedReservations {
	if items == nil {
		items = []*ReservationListItem{}
	}
	totalPages := (total + int64(limit) - 1) / int64(limit)
	return &PagedReservations{
		Items:       items,
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: int64(page) < totalPages,
		HasPrevPage: page > 1,
	}
}
