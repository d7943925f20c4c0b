package billing

import (
	"net/http"

	"seeu_cafe_server/handling"

	"github.com/MonkyMars/gecho"
)

// ListBills returns combined-bill summaries, optionally filtered by status.
func (brm *BillingRoutesManager) ListBills(w http.ResponseWriter, r *http.Request) {
	status, err := handling.ParseBillListOptions(r)
	if err != nil {
		handling.RespondError(w, brm.logger, "error.billing.invalidListOptions", err)
		return
	}

	bills, err := brm.billingService.ListCombinedBills(r.Context(), status)
	if err != nil {
		handling.RespondError(w, brm.logger, "error.billing.listFailed", err)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.billing.billsFetched"),
		gecho.WithData(map[string]any{
			"bills": bills,
			"count": len(bills),
		}),
		gecho.Send(),
	)
}
