package billing

import (
	"seeu_cafe_server/api/middleware"
	"seeu_cafe_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type BillingRoutesManager struct {
	logger            *gecho.Logger
	mw                *middleware.Middleware
	tableService      *services.TableService
	billingService    *services.BillingService
	settlementService *services.SettlementService
}

func NewBillingRoutesManager(
	logger *gecho.Logger,
	mw *middleware.Middleware,
	tableService *services.TableService,
	billingService *services.BillingService,
	settlementService *services.SettlementService,
) *BillingRoutesManager {
	return &BillingRoutesManager{
		logger:            logger,
		mw:                mw,
		tableService:      tableService,
		billingService:    billingService,
		settlementService: settlementService,
	}
}

func (brm *BillingRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/billing", func(r chi.Router) {
		r.Use(brm.mw.StaffAuthMiddleware)

		r.Get("/tables/unpaid", brm.ListUnpaidTables)
		r.Get("/statistics", brm.GetStatistics)

		r.Route("/combined", func(r chi.Router) {
			r.Post("/preview", brm.PreviewBill)
			r.Post("/", brm.CreateBill)
			r.Get("/", brm.ListBills)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", brm.GetBill)
				r.Post("/pay", brm.PayBill)
				r.Post("/split", brm.SplitPayBill)
				r.Post("/cancel", brm.CancelBill)
			})
		})
	})
}
