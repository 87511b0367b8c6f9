package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"cloudpanel/internal/common"
	"cloudpanel/internal/entitlement"
	"cloudpanel/internal/models"
	"cloudpanel/internal/repositories"
	"cloudpanel/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) Create(ctx context.Context, req *services.CreateSubscriptionRequest) (*services.CreateSubscriptionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CreateSubscriptionResult), args.Error(1)
}

func (m *MockSubscriptionService) Extend(ctx context.Context, req *services.ExtendSubscriptionRequest) (*models.Subscription, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) UpdateStatus(ctx context.Context, subscriptionID uuid.UUID, newStatus string) (*models.Subscription, error) {
	args := m.Called(ctx, subscriptionID, newStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) GetByID(ctx context.Context, subscriptionID uuid.UUID) (*models.Subscription, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) ListByInstance(ctx context.Context, instanceID uuid.UUID) ([]*models.Subscription, error) {
	args := m.Called(ctx, instanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) Delete(ctx context.Context, subscriptionID uuid.UUID) error {
	args := m.Called(ctx, subscriptionID)
	return args.Error(0)
}

func (m *MockSubscriptionService) Entitlement(ctx context.Context, instanceID uuid.UUID) (entitlement.Snapshot, error) {
	args := m.Called(ctx, instanceID)
	return args.Get(0).(entitlement.Snapshot), args.Error(1)
}

type MockInstanceRepository struct {
	mock.Mock
}

func (m *MockInstanceRepository) Create(ctx context.Context, instance *models.Instance) error {
	args := m.Called(ctx, instance)
	return args.Error(0)
}

func (m *MockInstanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Instance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Instance), args.Error(1)
}

func (m *MockInstanceRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Instance, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Instance), args.Error(1)
}

func (m *MockInstanceRepository) Update(ctx context.Context, instance *models.Instance) error {
	args := m.Called(ctx, instance)
	return args.Error(0)
}

func (m *MockInstanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInstanceRepository) List(ctx context.Context, limit, offset int) ([]*models.Instance, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Instance), args.Error(1)
}

type AccessGateTestSuite struct {
	suite.Suite
	subscriptionSvc *MockSubscriptionService
	instanceRepo    *MockInstanceRepository
	gate            *AccessGate
	echo            *echo.Echo
	userID          uuid.UUID
	instanceID      uuid.UUID
}

func (s *AccessGateTestSuite) SetupTest() {
	s.subscriptionSvc = new(MockSubscriptionService)
	s.instanceRepo = new(MockInstanceRepository)
	s.gate = NewAccessGate(s.subscriptionSvc, s.instanceRepo)
	s.echo = echo.New()
	s.userID = uuid.New()
	s.instanceID = uuid.New()
}

// run sends a request through the gate to a trivial handler and returns the
// recorded response.
func (s *AccessGateTestSuite) run(path string, role string, authenticated bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authenticated {
		ctx := common.WithUser(req.Context(), s.userID, role)
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	c.SetPath(path)

	handler := s.gate.Guard()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	if err != nil {
		s.echo.HTTPErrorHandler(err, c)
	}
	return rec
}

func (s *AccessGateTestSuite) TestUnauthenticatedRejected() {
	rec := s.run("/api/courses", "", false)
	assert.Equal(s.T(), http.StatusUnauthorized, rec.Code)
}

func (s *AccessGateTestSuite) TestAdminBypassesGate() {
	rec := s.run("/api/users", "admin", true)

	assert.Equal(s.T(), http.StatusOK, rec.Code)
	s.instanceRepo.AssertNotCalled(s.T(), "GetByOwner", mock.Anything, mock.Anything)
}

func (s *AccessGateTestSuite) TestNoInstanceRedirectsToSignup() {
	s.instanceRepo.On("GetByOwner", mock.Anything, s.userID).Return(nil, repositories.ErrNotFound)

	rec := s.run("/api/courses", "customer", true)

	assert.Equal(s.T(), http.StatusForbidden, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), "NO_INSTANCE")
	assert.Contains(s.T(), rec.Body.String(), SignupPath)
}

func (s *AccessGateTestSuite) TestExpiredRedirectsToRenewal() {
	s.instanceRepo.On("GetByOwner", mock.Anything, s.userID).
		Return(&models.Instance{ID: s.instanceID, OwnerID: s.userID}, nil)
	s.subscriptionSvc.On("Entitlement", mock.Anything, s.instanceID).
		Return(entitlement.Snapshot{
			Info: entitlement.Info{Status: "expired", IsExpired: true, Urgency: entitlement.UrgencyNone},
		}, nil)

	rec := s.run("/api/courses", "customer", true)

	assert.Equal(s.T(), http.StatusPaymentRequired, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), "SUBSCRIPTION_EXPIRED")
	assert.Contains(s.T(), rec.Body.String(), RenewalPath)
}

func (s *AccessGateTestSuite) TestExpiredAllowedOnPaymentSurface() {
	s.instanceRepo.On("GetByOwner", mock.Anything, s.userID).
		Return(&models.Instance{ID: s.instanceID, OwnerID: s.userID}, nil)
	s.subscriptionSvc.On("Entitlement", mock.Anything, s.instanceID).
		Return(entitlement.Snapshot{
			Info: entitlement.Info{Status: "expired", IsExpired: true},
		}, nil)

	rec := s.run(RenewalPath, "customer", true)
	assert.Equal(s.T(), http.StatusOK, rec.Code)

	rec = s.run(BillingPath+"/history", "customer", true)
	assert.Equal(s.T(), http.StatusOK, rec.Code)
}

func (s *AccessGateTestSuite) TestExpiringSetsWarningHeader() {
	s.instanceRepo.On("GetByOwner", mock.Anything, s.userID).
		Return(&models.Instance{ID: s.instanceID, OwnerID: s.userID}, nil)
	s.subscriptionSvc.On("Entitlement", mock.Anything, s.instanceID).
		Return(entitlement.Snapshot{
			HasActive: true,
			Info: entitlement.Info{
				Status:        "active",
				DaysRemaining: 3,
				IsExpiring:    true,
				Urgency:       entitlement.UrgencyMedium,
			},
		}, nil)

	rec := s.run("/api/courses", "customer", true)

	assert.Equal(s.T(), http.StatusOK, rec.Code)
	assert.Equal(s.T(), "medium", rec.Header().Get("X-Subscription-Warning"))
}

func (s *AccessGateTestSuite) TestHealthySubscriptionPassesCleanly() {
	s.instanceRepo.On("GetByOwner", mock.Anything, s.userID).
		Return(&models.Instance{ID: s.instanceID, OwnerID: s.userID}, nil)
	s.subscriptionSvc.On("Entitlement", mock.Anything, s.instanceID).
		Return(entitlement.Snapshot{
			HasActive: true,
			Info: entitlement.Info{
				Status:        "active",
				DaysRemaining: 120,
				Urgency:       entitlement.UrgencyNone,
			},
		}, nil)

	rec := s.run("/api/courses", "customer", true)

	assert.Equal(s.T(), http.StatusOK, rec.Code)
	assert.Empty(s.T(), rec.Header().Get("X-Subscription-Warning"))
}

func TestAccessGateTestSuite(t *testing.T) {
	suite.Run(t, new(AccessGateTestSuite))
}
