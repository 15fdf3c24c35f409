//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"tablebook/internal/domain/user"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/usecase/queries"
	"tablebook/internal/usecase/shared"
	"tablebook/tests/common/builder"
	queriesmock "tablebook/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReservationQueriesTestSuite struct {
	suite.Suite
	mockCtrl      *gomock.Controller
	mockReadStore *queriesmock.MockReservationReadStore
	mockCache     *queriesmock.MockTodayCache
	clock         *clock.MockClock
	queries       queries.ReservationQueries
}

func (s *ReservationQueriesTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockReadStore = queriesmock.NewMockReservationReadStore(s.mockCtrl)
	s.mockCache = queriesmock.NewMockTodayCache(s.mockCtrl)
	s.clock = clock.NewMockClock(time.Date(2026, 5, 20, 15, 30, 0, 0, time.UTC))
	s.queries = queries.NewReservationQueries(s.mockReadStore, s.mockCache, s.clock, time.UTC)
}

func (s *ReservationQueriesTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationQueriesSuite(t *testing.T) {
	suite.Run(t, new(ReservationQueriesTestSuite))
}

func (s *ReservationQueriesTestSuite) TestGetByID() {
	ownerID := uuid.New()
	view := builder.NewReservationBuilder().WithUserID(ownerID).BuildView()

	s.Run("success: owner reads own reservation", func() {
		s.mockReadStore.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil).Times(1)

		got, err := s.queries.GetByID(context.Background(), shared.Actor{ID: ownerID, Role: user.RoleUser}, view.ID)
		s.NoError(err)
		s.Equal(view, got)
	})

	s.Run("success: admin reads any reservation", func() {
		s.mockReadStore.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil).Times(1)

		got, err := s.queries.GetByID(context.Background(), shared.Actor{ID: uuid.New(), Role: user.RoleAdmin}, view.ID)
		s.NoError(err)
		s.Equal(view, got)
	})

	s.Run("error: other users are denied", func() {
		s.mockReadStore.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil).Times(1)

		got, err := s.queries.GetByID(context.Background(), shared.Actor{ID: uuid.New(), Role: user.RoleUser}, view.ID)
		s.Nil(got)
		s.ErrorIs(err, queries.ErrReservationAccess)
	})
}

func (s *ReservationQueriesTestSuite) TestListForUser() {
	userID := uuid.New()
	items := []*queries.ReservationListItem{
		builder.NewReservationBuilder().WithUserID(userID).BuildListItem(),
		builder.NewReservationBuilder().WithUserID(userID).BuildListItem(),
	}

	s.Run("success: wraps items in pagination envelope", func() {
		opts, err := queries.NewListOptions(queries.ListQuery{Page: 2, Limit: 2})
		s.Require().NoError(err)

		s.mockReadStore.EXPECT().FindByUser(gomock.Any(), userID, opts).Return(items, int64(5), nil).Times(1)

		page, err := s.queries.ListForUser(context.Background(), userID, opts)
		s.NoError(err)
		s.Equal(int64(5), page.Total)
		s.Equal(int64(3), page.TotalPages)
		s.True(page.HasNextPage)
		s.True(page.HasPrevPage)
		s.Len(page.Items, 2)
	})

	s.Run("error: status filter outside the lifecycle is rejected", func() {
		opts, err := queries.NewListOptions(queries.ListQuery{Page: 1, Limit: 10, Status: "Pending"})
		s.Require().NoError(err)

		page, err := s.queries.ListForUser(context.Background(), userID, opts)
		s.Nil(page)
		s.ErrorIs(err, queries.ErrInvalidQuery)
	})
}

func (s *ReservationQueriesTestSuite) TestListAll() {
	s.Run("success: empty result still returns an envelope", func() {
		opts, err := queries.NewListOptions(queries.ListQuery{Page: 1, Limit: 10})
		s.Require().NoError(err)

		s.mockReadStore.EXPECT().FindAll(gomock.Any(), opts).Return(nil, int64(0), nil).Times(1)

		page, err := s.queries.ListAll(context.Background(), opts)
		s.NoError(err)
		s.NotNil(page.Items)
		s.Empty(page.Items)
		s.Equal(int64(0), page.TotalPages)
		s.False(page.HasNextPage)
		s.False(page.HasPrevPage)
	})

	s.Run("success: status filter is passed through", func() {
		opts, err := queries.NewListOptions(queries.ListQuery{Page: 1, Limit: 10, Status: "Approved"})
		s.Require().NoError(err)

		s.mockReadStore.EXPECT().FindAll(gomock.Any(), opts).
			Return([]*queries.ReservationListItem{builder.NewReservationBuilder().BuildListItem()}, int64(1), nil).Times(1)

		page, err := s.queries.ListAll(context.Background(), opts)
		s.NoError(err)
		s.Len(page.Items, 1)
	})
}

func (s *ReservationQueriesTestSuite) TestListToday() {
	items := []*queries.ReservationListItem{builder.NewReservationBuilder().BuildListItem()}

	s.Run("success: cache miss loads today's window and fills the cache", func() {
		from := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 0, 1)

		s.mockCache.EXPECT().Get(gomock.Any(), "2026-05-20").Return(nil, false).Times(1)
		s.mockReadStore.EXPECT().FindArrivingBetween(gomock.Any(), from, to, nil).Return(items, nil).Times(1)
		s.mockCache.EXPECT().Set(gomock.Any(), "2026-05-20", items).Times(1)

		got, err := s.queries.ListToday(context.Background(), nil)
		s.NoError(err)
		s.Equal(items, got)
	})

	s.Run("success: status filter narrows the window and the cache key", func() {
		from := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 0, 1)
		status := "Approved"

		s.mockCache.EXPECT().Get(gomock.Any(), "2026-05-20:Approved").Return(nil, false).Times(1)
		s.mockReadStore.EXPECT().FindArrivingBetween(gomock.Any(), from, to, &status).Return(items, nil).Times(1)
		s.mockCache.EXPECT().Set(gomock.Any(), "2026-05-20:Approved", items).Times(1)

		got, err := s.queries.ListToday(context.Background(), &status)
		s.NoError(err)
		s.Equal(items, got)
	})

	s.Run("error: status filter outside the lifecycle is rejected", func() {
		status := "Pending"

		got, err := s.queries.ListToday(context.Background(), &status)
		s.Nil(got)
		s.ErrorIs(err, queries.ErrInvalidQuery)
	})

	s.Run("success: cache hit skips the read store", func() {
		s.mockCache.EXPECT().Get(gomock.Any(), "2026-05-20").Return(items, true).Times(1)

		got, err := s.queries.ListToday(context.Background(), nil)
		s.NoError(err)
		s.Equal(items, got)
	})

	s.Run("success: day boundary follows the restaurant timezone", func() {
		shanghai, err := time.LoadLocation("Asia/Shanghai")
		s.Require().NoError(err)
		q := queries.NewReservationQueries(s.mockReadStore, s.mockCache, s.clock, shanghai)

		// 2026-05-20 15:30 UTC is already 23:30 on the 20th in Shanghai.
		from := time.Date(2026, 5, 20, 0, 0, 0, 0, shanghai)
		to := from.AddDate(0, 0, 1)

		s.mockCache.EXPECT().Get(gomock.Any(), "2026-05-20").Return(nil, false).Times(1)
		s.mockReadStore.EXPECT().FindArrivingBetween(gomock.Any(), from, to, nil).Return(nil, nil).Times(1)
		s.mockCache.EXPECT().Set(gomock.Any(), "2026-05-20", gomock.Any()).Times(1)

		got, err := q.ListToday(context.Background(), nil)
		s.NoError(err)
		s.NotNil(got)
		s.Empty(got)
	})
}
