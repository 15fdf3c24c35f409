//go:build e2e

package reservation_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"tablebook/internal/domain/user"
	"tablebook/internal/handler/dto/request"
	resdto "tablebook/internal/handler/dto/response"
	"tablebook/tests/common/authtest"
	"tablebook/tests/common/dbtest"
	"tablebook/tests/common/httptest"
	"tablebook/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const reservationsURL = "/api/reservations"

type reservationSuite struct {
	e2e.SharedSuite
	loc *time.Location
}

func TestReservationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(reservationSuite))
}

func (s *reservationSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()

	loc, err := time.LoadLocation(s.Config.Business.TimeZone)
	require.NoError(s.T(), err)
	s.loc = loc
}

// futureArrival returns a time inside business hours, daysAhead days from now.
func (s *reservationSuite) futureArrival(daysAhead, hour int) time.Time {
	d := time.Now().In(s.loc).AddDate(0, 0, daysAhead)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, s.loc)
}

func (s *reservationSuite) createRequest(arrival time.Time) request.CreateReservationRequest {
	return request.CreateReservationRequest{
		GuestName:       "Zhang Wei",
		PhoneNumber:     "13812345678",
		Email:           "zhang.wei@example.com",
		ArrivalTime:     arrival,
		TableSize:       4,
		SpecialRequests: "window seat",
	}
}

func (s *reservationSuite) createViaAPI(token string, arrival time.Time) resdto.ReservationResponse {
	t := s.T()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, s.createRequest(arrival), token)
	var response resdto.ReservationResponse
	httptest.AssertSuccessResponse(t, w, http.StatusCreated, &response)
	return response
}

func (s *reservationSuite) TestCreateReservation() {
	s.Run("creates a reservation in Requested state with an initial history entry", func() {
		token := authtest.CreateAndLogin(s.T(), s.DB, s.Router, "owner@example.com", string(user.RoleUser))

		response := s.createViaAPI(token, s.futureArrival(1, 12))

		s.Equal("Requested", response.Status)
		s.Equal("Zhang Wei", response.GuestName)
		s.Equal(4, response.TableSize)
		s.Require().Len(response.StatusHistory, 1)
		s.Equal("Requested", response.StatusHistory[0].Status)
	})

	s.Run("rejects a second active reservation within two hours", func() {
		token := authtest.CreateAndLogin(s.T(), s.DB, s.Router, "owner@example.com", string(user.RoleUser))

		s.createViaAPI(token, s.futureArrival(1, 12))

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, reservationsURL,
			s.createRequest(s.futureArrival(1, 13)), token)
		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "conflicting reservation")
	})

	s.Run("allows another reservation outside the conflict window", func() {
		token := authtest.CreateAndLogin(s.T(), s.DB, s.Router, "owner@example.com", string(user.RoleUser))

		s.createViaAPI(token, s.futureArrival(1, 11))
		s.createViaAPI(token, s.futureArrival(1, 14))
	})

	s.Run("does not count other users' reservations as conflicts", func() {
		t := s.T()
		token1 := authtest.CreateAndLogin(t, s.DB, s.Router, "first@example.com", string(user.RoleUser))
		token2 := authtest.CreateAndLogin(t, s.DB, s.Router, "second@example.com", string(user.RoleUser))

		arrival := s.futureArrival(1, 12)
		s.createViaAPI(token1, arrival)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, s.createRequest(arrival), token2)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	s.Run("rejects an arrival outside business hours", func() {
		token := authtest.CreateAndLogin(s.T(), s.DB, s.Router, "owner@example.com", string(user.RoleUser))

		req := s.createRequest(s.futureArrival(1, 23))
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, reservationsURL, req, token)
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid request data")
	})

	s.Run("rejects an invalid phone number", func() {
		token := authtest.CreateAndLogin(s.T(), s.DB, s.Router, "owner@example.com", string(user.RoleUser))

		req := s.createRequest(s.futureArrival(1, 12))
		req.PhoneNumber = "12345"
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, reservationsURL, req, token)
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid request data")
	})

	s.Run("requires authentication", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, reservationsURL,
			s.createRequest(s.futureArrival(1, 12)), "")
		require.Equal(s.T(), http.StatusUnauthorized, w.Code)
	})
}

func (s *reservationSuite) TestGetReservation() {
	s.Run("owner can fetch their reservation with full history", func() {
		token := authtest.CreateAndLogin(s.T(), s.DB, s.Router, "owner@example.com", string(user.RoleUser))
		created := s.createViaAPI(token, s.futureArrival(1, 12))

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
			fmt.Sprintf("%s/%s", reservationsURL, created.ID), nil, token)

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &response)
		s.Equal(created.ID, response.ID)
		s.NotEmpty(response.StatusHistory)
	})

	s.Run("admin can fetch any reservation", func() {
		t := s.T()
		ownerToken := authtest.CreateAndLogin(t, s.DB, s.Router, "owner@example.com", string(user.RoleUser))
		adminToken := authtest.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))
		created := s.createViaAPI(ownerToken, s.futureArrival(1, 12))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf("%s/%s", reservationsURL, created.ID), nil, adminToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	s.Run("another user is denied", func() {
		t := s.T()
		ownerToken := authtest.CreateAndLogin(t, s.DB, s.Router, "owner@example.com", string(user.RoleUser))
		otherToken := authtest.CreateAndLogin(t, s.DB, s.Router, "other@example.com", string(user.RoleUser))
		created := s.createViaAPI(ownerToken, s.futureArrival(1, 12))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf("%s/%s", reservationsURL, created.ID), nil, otherToken)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "")
	})

	s.Run("unknown id returns 404", func() {
		token := authtest.CreateAndLogin(s.T(), s.DB, s.Router, "owner@example.com", string(user.RoleUser))

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet,
			fmt.Sprintf("%s/%s", reservationsURL, uuid.New()), nil, token)
		httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "")
	})

	s.Run("malformed id returns 400", func() {
		token := authtest.CreateAndLogin(s.T(), s.DB, s.Router, "owner@example.com", string(user.RoleUser))

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, reservationsURL+"/not-a-uuid", nil, token)
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid reservation ID")
	})
}

func (s *reservationSuite) TestListReservations() {
	s.Run("lists only the caller's reservations with a pagination envelope", func() {
		t := s.T()
		ownerID := dbtest.CreateTestUser(t, s.DB, "owner@example.com", string(user.RoleUser))
		otherID := dbtest.CreateTestUser(t, s.DB, "other@example.com", string(user.RoleUser))
		token := authtest.LoginUser(t, s.Router, "owner@example.com", "password123")

		for i := range 3 {
			dbtest.CreateTestReservation(t, s.DB, ownerID, s.futureArrival(i+1, 12), "Requested")
		}
		dbtest.CreateTestReservation(t, s.DB, otherID, s.futureArrival(1, 18), "Requested")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"?page=1&limit=2", nil, token)

		var response resdto.PagedReservationsResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &response)
		require.Equal(t, int64(3), response.Total)
		require.Len(t, response.Items, 2)
		require.Equal(t, int64(2), response.TotalPages)
		require.True(t, response.HasNextPage)
		for _, item := range response.Items {
			require.Equal(t, ownerID, item.UserID)
		}
	})

	s.Run("filters by status", func() {
		t := s.T()
		ownerID := dbtest.CreateTestUser(t, s.DB, "owner@example.com", string(user.RoleUser))
		token := authtest.LoginUser(t, s.Router, "owner@example.com", "password123")

		dbtest.CreateTestReservation(t, s.DB, ownerID, s.futureArrival(1, 12), "Requested")
		dbtest.CreateTestReservation(t, s.DB, ownerID, s.futureArrival(2, 12), "Approved")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"?status=Approved", nil, token)

		var response resdto.PagedReservationsResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &response)
		require.Equal(t, int64(1), response.Total)
		require.Equal(t, "Approved", response.Items[0].Status)
	})

	s.Run("rejects an unknown status filter", func() {
		token := authtest.CreateAndLogin(s.T(), s.DB, s.Router, "owner@example.com", string(user.RoleUser))

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, reservationsURL+"?status=Pending", nil, token)
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "")
	})
}

func (s *reservationSuite) TestAdminListings() {
	s.Run("admin listing spans all users", func() {
		t := s.T()
		firstID := dbtest.CreateTestUser(t, s.DB, "first@example.com", string(user.RoleUser))
		secondID := dbtest.CreateTestUser(t, s.DB, "second@example.com", string(user.RoleUser))
		adminToken := authtest.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))

		dbtest.CreateTestReservation(t, s.DB, firstID, s.futureArrival(1, 12), "Requested")
		dbtest.CreateTestReservation(t, s.DB, secondID, s.futureArrival(1, 18), "Approved")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"/admin", nil, adminToken)

		var response resdto.PagedReservationsResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &response)
		require.Equal(t, int64(2), response.Total)
		for _, item := range response.Items {
			require.NotEmpty(t, item.UserEmail)
		}
	})

	s.Run("admin listing is denied to normal users", func() {
		token := authtest.CreateAndLogin(s.T(), s.DB, s.Router, "owner@example.com", string(user.RoleUser))

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, reservationsURL+"/admin", nil, token)
		require.Equal(s.T(), http.StatusForbidden, w.Code)
	})

	s.Run("today listing returns reservations arriving today", func() {
		t := s.T()
		ownerID := dbtest.CreateTestUser(t, s.DB, "owner@example.com", string(user.RoleUser))
		adminToken := authtest.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))

		// Insert directly so past-hour arrivals on today's date are possible
		now := time.Now().In(s.loc)
		today := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, s.loc)
		todayID := dbtest.CreateTestReservation(t, s.DB, ownerID, today, "Approved")
		dbtest.CreateTestReservation(t, s.DB, ownerID, s.futureArrival(3, 12), "Requested")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"/today", nil, adminToken)

		var response []*resdto.ReservationListResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &response)
		require.Len(t, response, 1)
		require.Equal(t, todayID, response[0].ID)
	})

	s.Run("today listing honours the status filter", func() {
		t := s.T()
		ownerID := dbtest.CreateTestUser(t, s.DB, "owner@example.com", string(user.RoleUser))
		adminToken := authtest.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))

		now := time.Now().In(s.loc)
		today := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, s.loc)
		approvedID := dbtest.CreateTestReservation(t, s.DB, ownerID, today, "Approved")
		dbtest.CreateTestReservation(t, s.DB, ownerID, today.Add(3*time.Hour), "Requested")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"/today?status=Approved", nil, adminToken)

		var response []*resdto.ReservationListResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &response)
		require.Len(t, response, 1)
		require.Equal(t, approvedID, response[0].ID)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"/today?status=Pending", nil, adminToken)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "")
	})

	s.Run("admin listing filters by user, search term and date range", func() {
		t := s.T()
		firstID := dbtest.CreateTestUser(t, s.DB, "first@example.com", string(user.RoleUser))
		secondID := dbtest.CreateTestUser(t, s.DB, "second@example.com", string(user.RoleUser))
		adminToken := authtest.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))

		early := s.futureArrival(1, 12)
		late := s.futureArrival(10, 18)
		earlyID := dbtest.CreateTestReservation(t, s.DB, firstID, early, "Requested")
		dbtest.CreateTestReservation(t, s.DB, secondID, late, "Requested")

		_, err := s.DB.Exec(context.Background(),
			`UPDATE reservations SET guest_name = 'Alice Wong', email = 'alice@example.com' WHERE id = $1`, earlyID)
		require.NoError(t, err)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			reservationsURL+"/admin?userId="+firstID.String(), nil, adminToken)
		var response resdto.PagedReservationsResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &response)
		require.Equal(t, int64(1), response.Total)
		require.Equal(t, earlyID, response.Items[0].ID)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet,
			reservationsURL+"/admin?search=ALICE", nil, adminToken)
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &response)
		require.Equal(t, int64(1), response.Total)
		require.Equal(t, earlyID, response.Items[0].ID)

		day := early.Format("2006-01-02")
		w = httptest.PerformRequest(t, s.Router, http.MethodGet,
			reservationsURL+"/admin?startDate="+day+"&endDate="+day, nil, adminToken)
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &response)
		require.Equal(t, int64(1), response.Total)
		require.Equal(t, earlyID, response.Items[0].ID)
	})

	s.Run("admin listing defaults to newest arrivals first", func() {
		t := s.T()
		ownerID := dbtest.CreateTestUser(t, s.DB, "owner@example.com", string(user.RoleUser))
		adminToken := authtest.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))

		dbtest.CreateTestReservation(t, s.DB, ownerID, s.futureArrival(1, 12), "Requested")
		lateID := dbtest.CreateTestReservation(t, s.DB, ownerID, s.futureArrival(5, 12), "Requested")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"/admin", nil, adminToken)

		var response resdto.PagedReservationsResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &response)
		require.Equal(t, int64(2), response.Total)
		require.Equal(t, lateID, response.Items[0].ID)
	})

	s.Run("today listing is denied to normal users", func() {
		token := authtest.CreateAndLogin(s.T(), s.DB, s.Router, "owner@example.com", string(user.RoleUser))

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, reservationsURL+"/today", nil, token)
		require.Equal(s.T(), http.StatusForbidden, w.Code)
	})
}

func (s *reservationSuite) TestUpdateReservation() {
	s.Run("owner can edit guest fields", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "owner@example.com", string(user.RoleUser))
		created := s.createViaAPI(token, s.futureArrival(1, 12))

		newName := "Li Na"
		newSize := 6
		w := httptest.PerformRequest(t, s.Router, http.MethodPut,
			fmt.Sprintf("%s/%s", reservationsURL, created.ID),
			request.UpdateReservationRequest{GuestName: &newName, TableSize: &newSize}, token)

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &response)
		require.Equal(t, "Li Na", response.GuestName)
		require.Equal(t, 6, response.TableSize)
		require.Equal(t, "Requested", response.Status)
	})

	s.Run("moving the arrival into a conflicting slot is rejected", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "owner@example.com", string(user.RoleUser))
		first := s.createViaAPI(token, s.futureArrival(1, 11))
		s.createViaAPI(token, s.futureArrival(1, 15))

		conflicting := s.futureArrival(1, 14)
		w := httptest.PerformRequest(t, s.Router, http.MethodPut,
			fmt.Sprintf("%s/%s", reservationsURL, first.ID),
			request.UpdateReservationRequest{ArrivalTime: &conflicting}, token)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "conflicting reservation")
	})

	s.Run("another user cannot edit the reservation", func() {
		t := s.T()
		ownerToken := authtest.CreateAndLogin(t, s.DB, s.Router, "owner@example.com", string(user.RoleUser))
		otherToken := authtest.CreateAndLogin(t, s.DB, s.Router, "other@example.com", string(user.RoleUser))
		created := s.createViaAPI(ownerToken, s.futureArrival(1, 12))

		newName := "Intruder"
		w := httptest.PerformRequest(t, s.Router, http.MethodPut,
			fmt.Sprintf("%s/%s", reservationsURL, created.ID),
			request.UpdateReservationRequest{GuestName: &newName}, otherToken)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "")
	})

	s.Run("a cancelled reservation cannot be edited", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "owner@example.com", string(user.RoleUser))
		created := s.createViaAPI(token, s.futureArrival(1, 12))

		cancelRec := httptest.PerformRequest(t, s.Router, http.MethodPut,
			fmt.Sprintf("%s/%s/cancel", reservationsURL, created.ID),
			request.CancelReservationRequest{Reason: "change of plans"}, token)
		require.Equal(t, http.StatusOK, cancelRec.Code, cancelRec.Body.String())

		newName := "Too Late"
		w := httptest.PerformRequest(t, s.Router, http.MethodPut,
			fmt.Sprintf("%s/%s", reservationsURL, created.ID),
			request.UpdateReservationRequest{GuestName: &newName}, token)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "no longer be edited")
	})
}

func (s *reservationSuite) TestUpdateReservationStatus() {
	s.Run("admin can walk a reservation through its lifecycle", func() {
		t := s.T()
		ownerToken := authtest.CreateAndLogin(t, s.DB, s.Router, "owner@example.com", string(user.RoleUser))
		adminToken := authtest.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))
		created := s.createViaAPI(ownerToken, s.futureArrival(1, 12))

		statusURL := fmt.Sprintf("%s/%s/status", reservationsURL, created.ID)

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, statusURL,
			request.UpdateReservationStatusRequest{Status: "Approved"}, adminToken)
		var approved resdto.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &approved)
		require.Equal(t, "Approved", approved.Status)
		require.Len(t, approved.StatusHistory, 2)

		w = httptest.PerformRequest(t, s.Router, http.MethodPut, statusURL,
			request.UpdateReservationStatusRequest{Status: "Completed"}, adminToken)
		var completed resdto.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &completed)
		require.Equal(t, "Completed", completed.Status)
		require.Len(t, completed.StatusHistory, 3)
	})

	s.Run("status changes are admin only", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "owner@example.com", string(user.RoleUser))
		created := s.createViaAPI(token, s.futureArrival(1, 12))

		w := httptest.PerformRequest(t, s.Router, http.MethodPut,
			fmt.Sprintf("%s/%s/status", reservationsURL, created.ID),
			request.UpdateReservationStatusRequest{Status: "Approved"}, token)
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	s.Run("skipping Approved is rejected", func() {
		t := s.T()
		ownerToken := authtest.CreateAndLogin(t, s.DB, s.Router, "owner@example.com", string(user.RoleUser))
		adminToken := authtest.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))
		created := s.createViaAPI(ownerToken, s.futureArrival(1, 12))

		w := httptest.PerformRequest(t, s.Router, http.MethodPut,
			fmt.Sprintf("%s/%s/status", reservationsURL, created.ID),
			request.UpdateReservationStatusRequest{Status: "Completed"}, adminToken)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "transition is not allowed")
	})

	s.Run("cancelling through the status endpoint requires a reason", func() {
		t := s.T()
		ownerToken := authtest.CreateAndLogin(t, s.DB, s.Router, "owner@example.com", string(user.RoleUser))
		adminToken := authtest.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))
		created := s.createViaAPI(ownerToken, s.futureArrival(1, 12))

		w := httptest.PerformRequest(t, s.Router, http.MethodPut,
			fmt.Sprintf("%s/%s/status", reservationsURL, created.ID),
			request.UpdateReservationStatusRequest{Status: "Cancelled"}, adminToken)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "reason is required")
	})
}

func (s *reservationSuite) TestCancelReservation() {
	s.Run("owner cancels with a reason", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "owner@example.com", string(user.RoleUser))
		created := s.createViaAPI(token, s.futureArrival(1, 12))

		w := httptest.PerformRequest(t, s.Router, http.MethodPut,
			fmt.Sprintf("%s/%s/cancel", reservationsURL, created.ID),
			request.CancelReservationRequest{Reason: "change of plans"}, token)

		var response resdto.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &response)
		require.Equal(t, "Cancelled", response.Status)
		require.NotNil(t, response.CancellationReason)
		require.Equal(t, "change of plans", *response.CancellationReason)
	})

	s.Run("a reason is mandatory", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "owner@example.com", string(user.RoleUser))
		created := s.createViaAPI(token, s.futureArrival(1, 12))

		w := httptest.PerformRequest(t, s.Router, http.MethodPut,
			fmt.Sprintf("%s/%s/cancel", reservationsURL, created.ID),
			map[string]any{}, token)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "")
	})

	s.Run("a completed reservation cannot be cancelled", func() {
		t := s.T()
		ownerID := dbtest.CreateTestUser(t, s.DB, "owner@example.com", string(user.RoleUser))
		token := authtest.LoginUser(t, s.Router, "owner@example.com", "password123")
		completedID := dbtest.CreateTestReservation(t, s.DB, ownerID, s.futureArrival(1, 12), "Completed")

		w := httptest.PerformRequest(t, s.Router, http.MethodPut,
			fmt.Sprintf("%s/%s/cancel", reservationsURL, completedID),
			request.CancelReservationRequest{Reason: "too late"}, token)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "")
	})
}
