package request

import (
	"time"
)

type CreateReservationRequest struct {
	GuestName       string    `json:"guestName" binding:"required"`
	PhoneNumber     string    `json:"phoneNumber" binding:"required"`
	Email           string    `json:"email" binding:"required"`
	ArrivalTime     time.Time `json:"arrivalTime" binding:"required"`
	TableSize       int       `json:"tableSize" binding:"required"`
	SpecialRequests string    `json:"specialRequests"`
}

// UpdateReservationRequest carries the editable fields only; status and
// cancellation reason have dedicated endpoints.
type UpdateReservationRequest struct {
	GuestName       *string    `json:"guestName,omitempty"`
	PhoneNumber     *string    `json:"phoneNumber,omitempty"`
	Email           *string    `json:"email,omitempty"`
	ArrivalTime     *time.Time `json:"arrivalTime,omitempty"`
	TableSize       *int       `json:"tableSize,omitempty"`
	SpecialRequests *string    `json:"specialRequests,omitempty"`
}

type UpdateReservationStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Reason *string `json:"reason,omitempty"`
}

type CancelReservationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListReservationsQuery binds the pagination and filter query string shared
// by the list endpoints.
type ListReservationsQuery struct {
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	Status    string `form:"status"`
	UserID    string `form:"userId"`
	Search    string `form:"search"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}
