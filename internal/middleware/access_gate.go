package middleware

import (
	"errors"
	"net/http"
	"strings"

	"cloudpanel/internal/common"
	"cloudpanel/internal/repositories"
	"cloudpanel/internal/services"

	"github.com/labstack/echo/v4"
)

// Redirect targets returned to the client when access is denied.
const (
	SignupPath  = "/signup"
	RenewalPath = "/renew"
	BillingPath = "/billing"
)

// AccessGate decides, per request, whether the signed-in customer may use
// the application: allow, allow with an expiring-soon warning, or deny with
// a redirect to the renewal page. Evaluated on every request, so a route
// change always sees a fresh entitlement snapshot.
type AccessGate struct {
	subscriptionSvc services.SubscriptionService
	instanceRepo    repositories.InstanceRepository
}

func NewAccessGate(subscriptionSvc services.SubscriptionService, instanceRepo repositories.InstanceRepository) *AccessGate {
	return &AccessGate{
		subscriptionSvc: subscriptionSvc,
		instanceRepo:    instanceRepo,
	}
}

// onPaymentSurface reports whether the request is already on the renewal or
// billing surface, where an expired tenant must still be let through to pay.
func onPaymentSurface(path string) bool {
	return strings.HasPrefix(path, RenewalPath) || strings.HasPrefix(path, BillingPath)
}

func (g *AccessGate) Guard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			userID, ok := common.GetUserIDFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}

			// Admins manage the platform; the gate only guards customers.
			if role, _ := common.GetUserRoleFromContext(ctx); role == "admin" {
				return next(c)
			}

			instance, err := g.instanceRepo.GetByOwner(ctx, userID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					// No instance provisioned: a distinct terminal state,
					// independent of subscription status.
					return c.JSON(http.StatusForbidden, map[string]any{
						"code":     "NO_INSTANCE",
						"message":  "No instance provisioned for this user",
						"redirect": SignupPath,
					})
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve instance")
			}

			snapshot, err := g.subscriptionSvc.Entitlement(ctx, instance.ID)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to evaluate subscription")
			}

			if snapshot.IsExpired {
				if onPaymentSurface(c.Request().URL.Path) {
					return next(c)
				}
				return c.JSON(http.StatusPaymentRequired, map[string]any{
					"code":     "SUBSCRIPTION_EXPIRED",
					"message":  "Subscription has expired",
					"redirect": RenewalPath,
				})
			}

			if snapshot.IsExpiring {
				c.Response().Header().Set("X-Subscription-Warning", string(snapshot.Urgency))
			}

			return next(c)
		}
	}
}
