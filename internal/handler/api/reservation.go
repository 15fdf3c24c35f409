package api

import (
	"errors"
	"net/http"

	reqdto "tablebook/internal/handler/dto/request"
	resdto "tablebook/internal/handler/dto/response"
	"tablebook/internal/handler/middleware"
	"tablebook/internal/usecase/commands"
	"tablebook/internal/usecase/queries"
	"tablebook/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	reservationCommands commands.ReservationCommands
	reservationQueries  queries.ReservationQueries
}

func NewReservationHandler(reservationCommands commands.ReservationCommands, reservationQueries queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{
		reservationCommands: reservationCommands,
		reservationQueries:  reservationQueries,
	}
}

// @Summary Create reservation
// @Description Create a new table reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req reqdto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.reservationCommands.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromReservationView(view))
}

// @Summary Get reservation
// @Description Get reservation by ID with its status history
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	id, ok := parseReservationID(c)
	if !ok {
		return
	}

	view, err := h.reservationQueries.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		case errors.Is(err, queries.ErrReservationAccess):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary List own reservations
// @Description List the current user's reservations, paginated
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Param status query string false "Filter by status"
// @Success 200 {object} resdto.PagedReservationsResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /reservations [get]
func (h *ReservationHandler) ListUserReservations(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	opts, ok := h.bindListOptions(c)
	if !ok {
		return
	}

	page, err := h.reservationQueries.ListForUser(c.Request.Context(), actor.ID, opts)
	if err != nil {
		h.respondListError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPagedReservations(page))
}

// @Summary List all reservations
// @Description Admin listing of all reservations, paginated and filterable
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Param status query string false "Filter by status"
// @Param userId query string false "Filter by user ID"
// @Param search query string false "Search guest name or email"
// @Param startDate query string false "Earliest arrival date (YYYY-MM-DD)"
// @Param endDate query string false "Latest arrival date (YYYY-MM-DD), inclusive"
// @Param sortBy query string false "Sort field (arrival_time or created_at)"
// @Param sortOrder query string false "Sort order (asc or desc, default desc)"
// @Success 200 {object} resdto.PagedReservationsResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /reservations/admin [get]
func (h *ReservationHandler) ListAllReservations(c *gin.Context) {
	opts, ok := h.bindListOptions(c)
	if !ok {
		return
	}

	page, err := h.reservationQueries.ListAll(c.Request.Context(), opts)
	if err != nil {
		h.respondListError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPagedReservations(page))
}

// @Summary List today's reservations
// @Description Admin listing of reservations arriving today
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {array} resdto.ReservationListResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /reservations/today [get]
func (h *ReservationHandler) ListTodayReservations(c *gin.Context) {
	var status *string
	if raw := c.Query("status"); raw != "" {
		status = &raw
	}

	items, err := h.reservationQueries.ListToday(c.Request.Context(), status)
	if err != nil {
		h.respondListError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationListItems(items))
}

// @Summary Update reservation
// @Description Update guest details of an active reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.UpdateReservationRequest true "Update request"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id} [put]
func (h *ReservationHandler) UpdateReservation(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	id, ok := parseReservationID(c)
	if !ok {
		return
	}

	var req reqdto.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.reservationCommands.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Update reservation status
// @Description Admin transition of a reservation's status
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.UpdateReservationStatusRequest true "Status update request"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/status [put]
func (h *ReservationHandler) UpdateReservationStatus(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	id, ok := parseReservationID(c)
	if !ok {
		return
	}

	var req reqdto.UpdateReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.reservationCommands.UpdateStatus(c.Request.Context(), actor, id, req)
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Cancel reservation
// @Description Cancel an active reservation with a reason
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.CancelReservationRequest true "Cancellation request"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservations/{id}/cancel [put]
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	id, ok := parseReservationID(c)
	if !ok {
		return
	}

	var req reqdto.CancelReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cancellation reason is required",
		})
		return
	}

	view, err := h.reservationCommands.Cancel(c.Request.Context(), actor, id, req)
	if err != nil {
		h.respondCommandError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

func (h *ReservationHandler) bindListOptions(c *gin.Context) (queries.ListOptions, bool) {
	var q reqdto.ListReservationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return queries.ListOptions{}, false
	}

	opts, err := queries.NewListOptions(queries.ListQuery{
		Page:      q.Page,
		Limit:     q.Limit,
		Status:    q.Status,
		UserID:    q.UserID,
		Search:    q.Search,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return queries.ListOptions{}, false
	}

	return opts, true
}

func (h *ReservationHandler) respondCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Reservation not found",
		})
	case errors.Is(err, commands.ErrReservationAccess):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Insufficient permissions",
		})
	case errors.Is(err, commands.ErrSchedulingConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": "A conflicting reservation already exists within 2 hours",
			"field": "arrivalTime",
		})
	case errors.Is(err, commands.ErrInvalidStateTransition):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Status transition is not allowed",
		})
	case errors.Is(err, commands.ErrMissingReason):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cancellation reason is required",
		})
	case errors.Is(err, commands.ErrEditNotAllowed):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Reservation can no longer be edited",
		})
	case errors.Is(err, commands.ErrDomainValidation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request data",
		})
	case errors.Is(err, commands.ErrDatabaseOperationFailed):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Service temporarily unavailable",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func (h *ReservationHandler) respondListError(c *gin.Context, err error) {
	if errors.Is(err, queries.ErrInvalidQuery) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
	})
}

func getActor(c *gin.Context) (shared.Actor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return shared.Actor{}, false
	}

	role, ok := middleware.GetUserRole(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return shared.Actor{}, false
	}

	return shared.Actor{ID: userID, Role: role}, true
}

func parseReservationID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}
