//go:build unit || e2e

package builder

import (
	"time"

	domreservation "tablebook/internal/domain/reservation"
	reqdto "tablebook/internal/handler/dto/request"
	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	UserID          uuid.UUID
	UserEmail       string
	GuestName       string
	PhoneNumber     string
	Email           string
	ArrivalTime     time.Time
	TableSize       int
	SpecialRequests string
	Status          string
	Now             time.Time
	Loc             *time.Location
}

func NewReservationBuilder() *ReservationBuilder {
	now := time.Now().UTC()
	// Next day at 13:00 keeps the default arrival inside business hours
	// regardless of when the test runs.
	arrival := time.Date(now.Year(), now.Month(), now.Day(), 13, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return &ReservationBuilder{
		UserID:          uuid.New(),
		UserEmail:       "guest@example.com",
		GuestName:       "Alice Wang",
		PhoneNumber:     "13812345678",
		Email:           "guest@example.com",
		ArrivalTime:     arrival,
		TableSize:       4,
		SpecialRequests: "window seat",
		Status:          string(domreservation.StatusRequested),
		Now:             now,
		Loc:             time.UTC,
	}
}

func (r *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(r)
	return r
}

// Build methods
func (r *ReservationBuilder) BuildDomain() (*domreservation.Reservation, error) {
	guestName, err := domreservation.NewGuestName(r.GuestName)
	if err != nil {
		return nil, err
	}
	phone, err := domreservation.NewPhoneNumber(r.PhoneNumber)
	if err != nil {
		return nil, err
	}
	email, err := domreservation.NewGuestEmail(r.Email)
	if err != nil {
		return nil, err
	}
	arrival, err := domreservation.NewArrivalTime(r.ArrivalTime, r.Now, r.Loc)
	if err != nil {
		return nil, err
	}
	tableSize, err := domreservation.NewTableSize(r.TableSize)
	if err != nil {
		return nil, err
	}
	requests, err := domreservation.NewSpecialRequests(r.SpecialRequests)
	if err != nil {
		return nil, err
	}

	return domreservation.NewReservation(r.UserID, guestName, phone, email, arrival, tableSize, requests, r.Now), nil
}

func (r *ReservationBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{
		GuestName:       r.GuestName,
		PhoneNumber:     r.PhoneNumber,
		Email:           r.Email,
		ArrivalTime:     r.ArrivalTime,
		TableSize:       r.TableSize,
		SpecialRequests: r.SpecialRequests,
	}
}

func (r *ReservationBuilder) BuildUpdateRequestDTO() reqdto.UpdateReservationRequest {
	guestName := r.GuestName
	phone := r.PhoneNumber
	email := r.Email
	arrival := r.ArrivalTime
	tableSize := r.TableSize
	requests := r.SpecialRequests
	return reqdto.UpdateReservationRequest{
		GuestName:       &guestName,
		PhoneNumber:     &phone,
		Email:           &email,
		ArrivalTime:     &arrival,
		TableSize:       &tableSize,
		SpecialRequests: &requests,
	}
}

func (r *ReservationBuilder) BuildView() *queries.ReservationView {
	return &queries.ReservationView{
		ID:              uuid.New(),
		UserID:          r.UserID,
		GuestName:       r.GuestName,
		PhoneNumber:     r.PhoneNumber,
		Email:           r.Email,
		ArrivalTime:     r.ArrivalTime,
		TableSize:       r.TableSize,
		Status:          r.Status,
		SpecialRequests: r.SpecialRequests,
		CanEdit:         queries.StatusAllowsChanges(r.Status),
		CanCancel:       queries.StatusAllowsChanges(r.Status),
		StatusHistory: []queries.StatusChangeView{
			{
				Status:    string(domreservation.StatusRequested),
				ChangedAt: r.Now,
				ChangedBy: &r.UserID,
			},
		},
		CreatedAt: r.Now,
		UpdatedAt: r.Now,
	}
}

func (r *ReservationBuilder) BuildListItem() *queries.ReservationListItem {
	return &queries.ReservationListItem{
		ID:          uuid.New(),
		UserID:      r.UserID,
		UserEmail:   r.UserEmail,
		GuestName:   r.GuestName,
		PhoneNumber: r.PhoneNumber,
		ArrivalTime: r.ArrivalTime,
		TableSize:   r.TableSize,
		Status:      r.Status,
		CreatedAt:   r.Now,
	}
}

// Fluent builder methods
func (r *ReservationBuilder) WithUserID(userID uuid.UUID) *ReservationBuilder {
	r.UserID = userID
	return r
}

func (r *ReservationBuilder) WithGuestName(name string) *ReservationBuilder {
	r.GuestName = name
	return r
}

func (r *ReservationBuilder) WithPhoneNumber(phone string) *ReservationBuilder {
	r.PhoneNumber = phone
	return r
}

func (r *ReservationBuilder) WithEmail(email string) *ReservationBuilder {
	r.Email = email
	return r
}

func (r *ReservationBuilder) WithArrivalTime(t time.Time) *ReservationBuilder {
	r.ArrivalTime = t
	return r
}

func (r *ReservationBuilder) WithTableSize(size int) *ReservationBuilder {
	r.TableSize = size
	return r
}

func (r *ReservationBuilder) WithSpecialRequests(requests string) *ReservationBuilder {
	r.SpecialRequests = requests
	return r
}

func (r *ReservationBuilder) WithStatus(status string) *ReservationBuilder {
	r.Status = status
	return r
}
