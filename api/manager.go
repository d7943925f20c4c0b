package api

import (
	"seeu_cafe_server/api/billing"
	"seeu_cafe_server/api/health"
	"seeu_cafe_server/api/middleware"
	"seeu_cafe_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	billingRoutes *billing.BillingRoutesManager
	healthRoutes  *health.HealthRoutesManager
}

func NewRouterManager(logger *gecho.Logger, sm *services.ServiceManager, mw *middleware.Middleware) *routerManager {
	return &routerManager{
		billingRoutes: billing.NewBillingRoutesManager(
			logger,
			mw,
			sm.TableService,
			sm.BillingService,
			sm.SettlementService,
		),
		healthRoutes: health.NewHealthRoutesManager(sm.HealthService),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.billingRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
}
