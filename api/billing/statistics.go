package billing

import (
	"net/http"

	"seeu_cafe_server/handling"

	"github.com/MonkyMars/gecho"
)

// GetStatistics returns combined-bill aggregates over a trailing window.
func (brm *BillingRoutesManager) GetStatistics(w http.ResponseWriter, r *http.Request) {
	days, err := handling.ParseStatisticsOptions(r)
	if err != nil {
		handling.RespondError(w, brm.logger, "error.billing.invalidStatisticsOptions", err)
		return
	}

	stats, err := brm.billingService.GetBillStatistics(r.Context(), days)
	if err != nil {
		handling.RespondError(w, brm.logger, "error.billing.statisticsFailed", err)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.billing.statisticsFetched"),
		gecho.WithData(stats),
		gecho.Send(),
	)
}
