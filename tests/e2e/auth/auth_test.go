//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"tablebook/internal/domain/user"
	"tablebook/internal/handler/dto/request"
	resdto "tablebook/internal/handler/dto/response"
	"tablebook/tests/common/authtest"
	"tablebook/tests/common/dbtest"
	"tablebook/tests/common/httptest"
	"tablebook/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	registerURL = "/api/auth/register"
	loginURL    = "/api/auth/login"
	refreshURL  = "/api/auth/refresh"
	logoutURL   = "/api/auth/logout"
	meURL       = "/api/auth/me"
)

type authSuite struct {
	e2e.SharedSuite
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) seedUsers() {
	t := s.T()
	dbtest.CreateTestUser(t, s.DB, "user@example.com", string(user.RoleUser))
	dbtest.CreateTestUser(t, s.DB, "admin@example.com", string(user.RoleAdmin))
	dbtest.CreateTestUser(t, s.DB, "inactive@example.com", string(user.RoleUser))

	_, err := s.DB.Exec(t.Context(), "UPDATE users SET is_active = false WHERE email = 'inactive@example.com'")
	require.NoError(t, err)
}

func (s *authSuite) TestRegister() {
	s.Run("registers a new account and allows login", func() {
		reqBody := request.RegisterRequest{
			Username: "newguest",
			Email:    "newguest@example.com",
			Password: "password123",
		}

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, registerURL, reqBody, "")
		var response resdto.RegisterResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &response)
		s.NotEmpty(response.UserID)

		token := authtest.LoginUser(s.T(), s.Router, reqBody.Email, reqBody.Password)
		s.NotEmpty(token)
	})

	s.Run("rejects a duplicate email", func() {
		s.seedUsers()

		reqBody := request.RegisterRequest{
			Username: "duplicate",
			Email:    "user@example.com",
			Password: "password123",
		}

		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, registerURL, reqBody, "")
		httptest.AssertErrorResponse(s.T(), w, http.StatusConflict, "already registered")
	})

	s.Run("rejects invalid payloads", func() {
		cases := []struct {
			name string
			body request.RegisterRequest
		}{
			{name: "short username", body: request.RegisterRequest{Username: "ab", Email: "x@example.com", Password: "password123"}},
			{name: "bad email", body: request.RegisterRequest{Username: "guest", Email: "not-an-email", Password: "password123"}},
			{name: "short password", body: request.RegisterRequest{Username: "guest", Email: "x@example.com", Password: "short"}},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, registerURL, tc.body, "")
				httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "")
			})
		}
	})
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
	}{
		{name: "valid credentials", email: "user@example.com", password: "password123", expectedStatus: http.StatusOK},
		{name: "unknown user", email: "nonexistent@example.com", password: "password123", expectedStatus: http.StatusUnauthorized},
		{name: "wrong password", email: "user@example.com", password: "wrongpassword", expectedStatus: http.StatusUnauthorized},
		{name: "inactive account", email: "inactive@example.com", password: "password123", expectedStatus: http.StatusForbidden},
		{name: "empty email", email: "", password: "password123", expectedStatus: http.StatusBadRequest},
		{name: "empty password", email: "user@example.com", password: "", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.seedUsers()
			t := s.T()

			reqBody := request.LoginRequest{Email: tt.email, Password: tt.password}
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL, reqBody, "")
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusOK {
				var response resdto.LoginResponse
				httptest.AssertSuccessResponse(t, w, http.StatusOK, &response)
				require.NotEmpty(t, response.AccessToken)

				accessCookie := httptest.ExtractCookie(w, "access_token")
				require.NotNil(t, accessCookie)
				require.Equal(t, response.AccessToken, accessCookie.Value)
				require.True(t, accessCookie.HttpOnly)

				refreshCookie := httptest.ExtractCookie(w, "refresh_token")
				require.NotNil(t, refreshCookie)
				require.NotEmpty(t, refreshCookie.Value)
			}
		})
	}
}

func (s *authSuite) TestRefresh() {
	s.Run("rotates tokens using the refresh cookie", func() {
		s.seedUsers()
		t := s.T()

		loginRec := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			request.LoginRequest{Email: "user@example.com", Password: "password123"}, "")
		require.Equal(t, http.StatusOK, loginRec.Code)
		refreshCookie := httptest.ExtractCookie(loginRec, "refresh_token")
		require.NotNil(t, refreshCookie)

		w := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, refreshURL, nil,
			[]*http.Cookie{refreshCookie}, "")

		var response resdto.LoginResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &response)
		require.NotEmpty(t, response.AccessToken)
		require.NotNil(t, httptest.ExtractCookie(w, "refresh_token"))
	})

	s.Run("rejects a garbage refresh token", func() {
		t := s.T()
		cookies := []*http.Cookie{{Name: "refresh_token", Value: "not-a-jwt"}}
		w := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, refreshURL, nil, cookies, "")
		httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "Invalid or expired refresh token")
	})

	s.Run("rejects a request with no token at all", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, refreshURL, nil, "")
		httptest.AssertErrorResponse(s.T(), w, http.StatusUnauthorized, "Refresh token required")
	})

	s.Run("rejects an access token presented as a refresh token", func() {
		s.seedUsers()
		t := s.T()

		accessToken := authtest.LoginUser(t, s.Router, "user@example.com", "password123")
		cookies := []*http.Cookie{{Name: "refresh_token", Value: accessToken}}
		w := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, refreshURL, nil, cookies, "")
		httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "Invalid or expired refresh token")
	})
}

func (s *authSuite) TestLogout() {
	s.Run("clears token cookies", func() {
		s.seedUsers()
		t := s.T()

		token := authtest.LoginUser(t, s.Router, "user@example.com", "password123")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, logoutURL, nil, token)
		require.Equal(t, http.StatusNoContent, w.Code)

		accessCookie := httptest.ExtractCookie(w, "access_token")
		require.NotNil(t, accessCookie)
		require.Empty(t, accessCookie.Value)
		require.Negative(t, accessCookie.MaxAge)
	})

	s.Run("requires authentication", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, logoutURL, nil, "")
		require.Equal(s.T(), http.StatusUnauthorized, w.Code)
	})
}

func (s *authSuite) TestMe() {
	s.Run("returns the authenticated user's profile", func() {
		s.seedUsers()
		t := s.T()

		token := authtest.LoginUser(t, s.Router, "admin@example.com", "password123")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)

		var response resdto.UserResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &response)
		require.Equal(t, "admin@example.com", response.Email)
		require.Equal(t, string(user.RoleAdmin), response.Role)
	})

	s.Run("rejects requests without a token", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, meURL, nil, "")
		require.Equal(s.T(), http.StatusUnauthorized, w.Code)
	})

	s.Run("rejects requests with an invalid token", func() {
		w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, meURL, nil, "invalid-token")
		require.Equal(s.T(), http.StatusUnauthorized, w.Code)
	})
}
