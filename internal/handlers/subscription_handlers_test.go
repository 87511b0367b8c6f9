package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

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

type SubscriptionHandlersTestSuite struct {
	suite.Suite
	service  *MockSubscriptionService
	handlers *SubscriptionHandlers
	echo     *echo.Echo
}

func (s *SubscriptionHandlersTestSuite) SetupTest() {
	s.service = new(MockSubscriptionService)
	s.handlers = NewSubscriptionHandlers(s.service)
	s.echo = echo.New()
}

func (s *SubscriptionHandlersTestSuite) request(method, target, body string) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	return rec, c
}

func (s *SubscriptionHandlersTestSuite) TestUpdateStatusSuccess() {
	subscriptionID := uuid.New()
	endDate := time.Now().AddDate(0, 0, 30)
	updated := &models.Subscription{
		ID:      subscriptionID,
		Status:  models.SubscriptionStatusExpired,
		EndDate: &endDate,
	}

	s.service.On("UpdateStatus", mock.Anything, subscriptionID, "expired").Return(updated, nil)

	body := fmt.Sprintf(`{"subscriptionId":%q,"newStatus":"expired"}`, subscriptionID)
	rec, c := s.request(http.MethodPost, "/api/subscriptions/update-status", body)

	err := s.handlers.UpdateStatus(c)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusOK, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), `"success":true`)
	assert.Contains(s.T(), rec.Body.String(), "Subscription status updated")
	s.service.AssertExpectations(s.T())
}

func (s *SubscriptionHandlersTestSuite) TestUpdateStatusMalformedBody() {
	rec, c := s.request(http.MethodPost, "/api/subscriptions/update-status", `{"subscriptionId":`)

	err := s.handlers.UpdateStatus(c)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), "error")
	s.service.AssertNotCalled(s.T(), "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (s *SubscriptionHandlersTestSuite) TestUpdateStatusInvalidID() {
	rec, c := s.request(http.MethodPost, "/api/subscriptions/update-status",
		`{"subscriptionId":"not-a-uuid","newStatus":"expired"}`)

	err := s.handlers.UpdateStatus(c)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	s.service.AssertNotCalled(s.T(), "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (s *SubscriptionHandlersTestSuite) TestUpdateStatusMissingStatus() {
	body := fmt.Sprintf(`{"subscriptionId":%q}`, uuid.New())
	rec, c := s.request(http.MethodPost, "/api/subscriptions/update-status", body)

	err := s.handlers.UpdateStatus(c)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), "newStatus is required")
}

func (s *SubscriptionHandlersTestSuite) TestUpdateStatusRejectsUnknownStatus() {
	subscriptionID := uuid.New()
	s.service.On("UpdateStatus", mock.Anything, subscriptionID, "paused").
		Return(nil, fmt.Errorf("%w: paused", services.ErrInvalidStatus))

	body := fmt.Sprintf(`{"subscriptionId":%q,"newStatus":"paused"}`, subscriptionID)
	rec, c := s.request(http.MethodPost, "/api/subscriptions/update-status", body)

	err := s.handlers.UpdateStatus(c)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), "invalid status")
}

func (s *SubscriptionHandlersTestSuite) TestUpdateStatusStoreFailure() {
	subscriptionID := uuid.New()
	s.service.On("UpdateStatus", mock.Anything, subscriptionID, "expired").
		Return(nil, fmt.Errorf("connection reset"))

	body := fmt.Sprintf(`{"subscriptionId":%q,"newStatus":"expired"}`, subscriptionID)
	rec, c := s.request(http.MethodPost, "/api/subscriptions/update-status", body)

	err := s.handlers.UpdateStatus(c)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusInternalServerError, rec.Code)
}

func (s *SubscriptionHandlersTestSuite) TestExtendConflictMapsTo409() {
	subscriptionID := uuid.New()
	s.service.On("Extend", mock.Anything, mock.MatchedBy(func(req *services.ExtendSubscriptionRequest) bool {
		return req.SubscriptionID == subscriptionID && req.Mode == services.ExtendModeDuration
	})).Return(nil, repositories.ErrConcurrentUpdate)

	_, c := s.request(http.MethodPut, "/api/subscriptions/"+subscriptionID.String()+"/extend",
		`{"mode":"duration","duration_id":"1month"}`)
	c.SetParamNames("id")
	c.SetParamValues(subscriptionID.String())

	err := s.handlers.ExtendSubscription(c)

	assert.Error(s.T(), err)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(s.T(), ok)
	assert.Equal(s.T(), http.StatusConflict, httpErr.Code)
}

func (s *SubscriptionHandlersTestSuite) TestCreateRequiresPlanAndDuration() {
	_, c := s.request(http.MethodPost, "/api/subscriptions", `{"plan_id":"business"}`)

	err := s.handlers.CreateSubscription(c)

	assert.Error(s.T(), err)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(s.T(), ok)
	assert.Equal(s.T(), http.StatusBadRequest, httpErr.Code)
	s.service.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *SubscriptionHandlersTestSuite) TestGetEntitlementReturnsSnapshot() {
	instanceID := uuid.New()
	s.service.On("Entitlement", mock.Anything, instanceID).Return(entitlement.Snapshot{
		HasActive: true,
		Info: entitlement.Info{
			Status:        "active",
			DaysRemaining: 12,
			Urgency:       entitlement.UrgencyNone,
		},
	}, nil)

	rec, c := s.request(http.MethodGet, "/api/instances/"+instanceID.String()+"/entitlement", "")
	c.SetParamNames("id")
	c.SetParamValues(instanceID.String())

	err := s.handlers.GetEntitlement(c)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusOK, rec.Code)
	assert.Contains(s.T(), rec.Body.String(), `"days_remaining":12`)
	assert.Contains(s.T(), rec.Body.String(), `"has_active":true`)
}

func TestSubscriptionHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionHandlersTestSuite))
}
