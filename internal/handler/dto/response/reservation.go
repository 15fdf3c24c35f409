package response

import (
	"time"

	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID                 uuid.UUID              `json:"id"`
	UserID             uuid.UUID              `json:"userId"`
	GuestName          string                 `json:"guestName"`
	PhoneNumber        string                 `json:"phoneNumber"`
	Email              string                 `json:"email"`
	ArrivalTime        time.Time              `json:"arrivalTime"`
	TableSize          int                    `json:"tableSize"`
	Status             string                 `json:"status"`
	SpecialRequests    string                 `json:"specialRequests,omitempty"`
	CancellationReason *string                `json:"cancellationReason,omitempty"`
	CanEdit            bool                   `json:"canEdit"`
	CanCancel          bool                   `json:"canCancel"`
	StatusHistory      []StatusChangeResponse `json:"statusHistory"`
	CreatedAt          time.Time              `json:"createdAt"`
	UpdatedAt          time.Time              `json:"updatedAt"`
}

type StatusChangeResponse struct {
	Status    string     `json:"status"`
	Reason    *string    `json:"reason,omitempty"`
	ChangedAt time.Time  `json:"changedAt"`
	ChangedBy *uuid.UUID `json:"changedBy,omitempty"`
}

type ReservationListResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	UserEmail   string    `json:"userEmail"`
	GuestName   string    `json:"guestName"`
	PhoneNumber string    `json:"phoneNumber"`
	ArrivalTime time.Time `json:"arrivalTime"`
	TableSize   int       `json:"tableSize"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type PagedReservationsResponse struct {
	Items       []*ReservationListResponse `json:"items"`
	Page        int                        `json:"page"`
	Limit       int                        `json:"limit"`
	Total       int64                      `json:"total"`
	TotalPages  int64                      `json:"totalPages"`
	HasNextPage bool                       `json:"hasNextPage"`
	HasPrevPage bool                       `json:"hasPrevPage"`
}

func FromReservationView(rm *queries.ReservationView) *ReservationResponse {
	history := make([]StatusChangeResponse, 0, len(rm.StatusHistory))
	for _, h := range rm.StatusHistory {
		history = append(history, StatusChangeResponse{
			Status:    h.Status,
			Reason:    h.Reason,
			ChangedAt: h.ChangedAt,
			ChangedBy: h.ChangedBy,
		})
	}

	return &ReservationResponse{
		ID:                 rm.ID,
		UserID:             rm.UserID,
		GuestName:          rm.GuestName,
		PhoneNumber:        rm.PhoneNumber,
		Email:              rm.Email,
		ArrivalTime:        rm.ArrivalTime,
		TableSize:          rm.TableSize,
		Status:             rm.Status,
		SpecialRequests:    rm.SpecialRequests,
		CancellationReason: rm.CancellationReason,
		CanEdit:            queries.StatusAllowsChanges(rm.Status),
		CanCancel:          queries.StatusAllowsChanges(rm.Status),
		StatusHistory:      history,
		CreatedAt:          rm.CreatedAt,
		UpdatedAt:          rm.UpdatedAt,
	}
}

func FromReservationListItem(rm *queries.ReservationListItem) *ReservationListResponse {
	return &ReservationListResponse{
		ID:          rm.ID,
		UserID:      rm.UserID,
		UserEmail:   rm.UserEmail,
		GuestName:   rm.GuestName,
		PhoneNumber: rm.PhoneNumber,
		ArrivalTime: rm.ArrivalTime,
		TableSize:   rm.TableSize,
		Status:      rm.Status,
		CreatedAt:   rm.CreatedAt,
	}
}

func FromPagedReservations(rm *queries.PagedReservations) *PagedReservationsResponse {
	items := make([]*ReservationListResponse, 0, len(rm.Items))
	for _, item := range rm.Items {
		items = append(items, FromReservationListItem(item))
	}
	return &PagedReservationsResponse{
		Items:       items,
		Page:        rm.Page,
		Limit:       rm.Limit,
		Total:       rm.Total,
		TotalPages:  rm.TotalPages,
		HasNextPage: rm.HasNextPage,
		HasPrevPage: rm.HasPrevPage,
	}
}

func FromReservationListItems(items []*queries.ReservationListItem) []*ReservationListResponse {
	out := make([]*ReservationListResponse, 0, len(items))
	for _, item := range items {
		out = append(out, FromReservationListItem(item))
	}
	return out
}
