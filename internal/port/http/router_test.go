package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Zethembe177/Job-Portal/internal/auth"
	authuc "github.com/Zethembe177/Job-Portal/internal/auth/usecase"
	"github.com/Zethembe177/Job-Portal/internal/domain"
	listinguc "github.com/Zethembe177/Job-Portal/internal/listing/usecase"
	"github.com/Zethembe177/Job-Portal/internal/platform/logger"
	"github.com/Zethembe177/Job-Portal/internal/platform/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	return m.Called(ctx, listing).Error(0)
}

func (m *MockListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	return m.Called(ctx, listing).Error(0)
}

func (m *MockListingRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if l, ok := args.Get(0).(*domain.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	args := m.Called(ctx, ownerID)
	if l, ok := args.Get(0).([]*domain.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) FindFiltered(ctx context.Context, filter domain.ListingFilter) ([]*domain.Listing, error) {
	args := m.Called(ctx, filter)
	if l, ok := args.Get(0).([]*domain.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) FindNearby(ctx context.Context, lat, lng, maxDistanceMeters float64, limit int64) ([]*domain.Listing, error) {
	args := m.Called(ctx, lat, lng, maxDistanceMeters, limit)
	if l, ok := args.Get(0).([]*domain.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockListingRepository) AnalyticsSummary(ctx context.Context) (*domain.AnalyticsSummary, error) {
	args := m.Called(ctx)
	if s, ok := args.Get(0).(*domain.AnalyticsSummary); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (string, error) {
	args := m.Called(ctx, user)
	if args.Error(1) == nil {
		user.ID = args.String(0)
	}
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// nopGeocoder, nopImageStore, nopCache, nopEvents and nopMailer satisfy the
// ports for routes that never touch them.

type nopGeocoder struct{}

func (nopGeocoder) Resolve(context.Context, string) (domain.Coordinates, error) {
	return domain.Coordinates{}, domain.ErrGeocodeNoResults
}

type nopImageStore struct{}

func (nopImageStore) Upload(context.Context, string, []byte) (domain.Image, error) {
	return domain.Image{}, nil
}
func (nopImageStore) Delete(context.Context, string) error { return nil }

type nopCache struct{}

func (nopCache) Get(context.Context, string) (*domain.Listing, error)      { return nil, nil }
func (nopCache) Set(context.Context, *domain.Listing, time.Duration) error { return nil }
func (nopCache) Delete(context.Context, string) error                      { return nil }

type nopEvents struct{}

func (nopEvents) ListingCreated(context.Context, *domain.Listing) error { return nil }
func (nopEvents) ListingUpdated(context.Context, *domain.Listing) error { return nil }
func (nopEvents) ListingDeleted(context.Context, string) error          { return nil }

type nopMailer struct{}

func (nopMailer) SendWelcome(string, string) error { return nil }

type routerFixture struct {
	handler  http.Handler
	listings *MockListingRepository
	users    *MockUserRepository
	tokens   *auth.TokenManager
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	log := logger.NewNop()
	listings := new(MockListingRepository)
	users := new(MockUserRepository)
	tokens := auth.NewTokenManager("test-secret")
	m := metrics.NewMetricsManager("test")

	listingUC := listinguc.NewListingUsecase(listings, nopGeocoder{}, nopImageStore{}, nopCache{}, nopEvents{}, m, log)
	authUC := authuc.NewAuthUsecase(users, tokens, nopMailer{}, log)

	handler := NewRouter(RouterDeps{
		Auth:     NewAuthHandler(authUC, log),
		Listings: NewListingHandler(listingUC, t.TempDir(), log),
		Tokens:   tokens,
		Users:    users,
		Metrics:  m,
		Logger:   log,
	})
	return &routerFixture{handler: handler, listings: listings, users: users, tokens: tokens}
}

func (f *routerFixture) bearerFor(t *testing.T, user *domain.User) string {
	t.Helper()
	token, err := f.tokens.Issue(user)
	require.NoError(t, err)
	f.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	return "Bearer " + token
}

func TestRouter_Nearby_RejectsMissingCoordinates(t *testing.T) {
	f := newRouterFixture(t)

	for _, target := range []string{
		"/api/listings/nearby",
		"/api/listings/nearby?lat=43.65",
		"/api/listings/nearby?lat=0&lng=-79.38",
		"/api/listings/nearby?lat=43.65&lng=abc",
	} {
		t.Run(target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRouter_Nearby_ReturnsCountAndListings(t *testing.T) {
	f := newRouterFixture(t)

	f.listings.On("FindNearby", mock.Anything, 43.65, -79.38, 5000.0, int64(50)).
		Return([]*domain.Listing{{ID: "a"}, {ID: "b"}}, nil).Once()

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/listings/nearby?lat=43.65&lng=-79.38&radius=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Count    int               `json:"count"`
		Listings []*domain.Listing `json:"listings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Len(t, body.Listings, 2)
}

func TestRouter_Search_PassesFilter(t *testing.T) {
	f := newRouterFixture(t)

	f.listings.On("FindFiltered", mock.Anything, mock.MatchedBy(func(filter domain.ListingFilter) bool {
		return filter.Search == "barista" &&
			filter.Category == "hospitality" &&
			filter.MinSalary != nil && *filter.MinSalary == 1000 &&
			filter.MaxSalary == nil
	})).Return([]*domain.Listing{}, nil).Once()

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/listings?search=barista&category=hospitality&minSalary=1000", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	f.listings.AssertExpectations(t)
}

func TestRouter_Search_BadSalaryParam(t *testing.T) {
	f := newRouterFixture(t)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/listings?minSalary=lots", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_View_NotFound(t *testing.T) {
	f := newRouterFixture(t)

	f.listings.On("FindByID", mock.Anything, "missing").
		Return(nil, domain.ErrListingNotFound).Once()

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/listings/view/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ProtectedRoutes_RequireToken(t *testing.T) {
	f := newRouterFixture(t)

	for _, tc := range []struct {
		method, target string
	}{
		{http.MethodGet, "/api/listings/my"},
		{http.MethodPost, "/api/listings"},
		{http.MethodPut, "/api/listings/abc"},
		{http.MethodDelete, "/api/listings/abc"},
	} {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			f.handler.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRouter_ProtectedRoutes_CandidateForbidden(t *testing.T) {
	f := newRouterFixture(t)
	bearer := f.bearerFor(t, &domain.User{ID: "cand-1", Role: domain.RoleCandidate})

	req := httptest.NewRequest(http.MethodGet, "/api/listings/my", nil)
	req.Header.Set("Authorization", bearer)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_DeletedUserTokenRejected(t *testing.T) {
	f := newRouterFixture(t)
	token, err := f.tokens.Issue(&domain.User{ID: "gone-1", Role: domain.RoleEmployer})
	require.NoError(t, err)
	f.users.On("FindByID", mock.Anything, "gone-1").
		Return(nil, domain.ErrUserNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/listings/my", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Delete_OwnListing(t *testing.T) {
	f := newRouterFixture(t)
	bearer := f.bearerFor(t, &domain.User{ID: "emp-1", Role: domain.RoleEmployer})

	f.listings.On("FindByID", mock.Anything, "listing-1").
		Return(&domain.Listing{ID: "listing-1", OwnerID: "emp-1"}, nil).Once()
	f.listings.On("Delete", mock.Anything, "listing-1").Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/api/listings/listing-1", nil)
	req.Header.Set("Authorization", bearer)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Listing deleted successfully"}`, rec.Body.String())
}

func TestRouter_Delete_ForeignListingForbidden(t *testing.T) {
	f := newRouterFixture(t)
	bearer := f.bearerFor(t, &domain.User{ID: "emp-2", Role: domain.RoleEmployer})

	f.listings.On("FindByID", mock.Anything, "listing-1").
		Return(&domain.Listing{ID: "listing-1", OwnerID: "emp-1"}, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/api/listings/listing-1", nil)
	req.Header.Set("Authorization", bearer)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	f.listings.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestRouter_Register_DuplicateEmail(t *testing.T) {
	f := newRouterFixture(t)

	f.users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Return("", domain.ErrDuplicateEmail).Once()

	body := `{"name":"Anna","email":"anna@example.com","password":"s3cret","role":"employer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Register_Success(t *testing.T) {
	f := newRouterFixture(t)

	f.users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Return("user-1", nil).Once()

	body := `{"name":"Anna","email":"anna@example.com","password":"s3cret","role":"employer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Message string       `json:"message"`
		Token   string       `json:"token"`
		User    *domain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "user-1", resp.User.ID)
}

func TestRouter_Analytics(t *testing.T) {
	f := newRouterFixture(t)

	f.listings.On("AnalyticsSummary", mock.Anything).Return(&domain.AnalyticsSummary{
		PerCategory: []domain.CategoryStats{{Category: "hospitality", TotalListings: 3, AvgSalary: 2500}},
		Overall:     domain.OverallStats{TotalListings: 3, AverageSalary: 2500},
	}, nil).Once()

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var summary domain.AnalyticsSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, int64(3), summary.Overall.TotalListings)
}
