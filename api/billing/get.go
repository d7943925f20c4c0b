package billing

import (
	"net/http"

	"seeu_cafe_server/handling"

	"github.com/MonkyMars/gecho"
)

// GetBill returns one combined bill with its per-table line items and the
// orders behind them.
func (brm *BillingRoutesManager) GetBill(w http.ResponseWriter, r *http.Request) {
	billId, err := handling.ParseIdParam(r)
	if err != nil {
		handling.RespondError(w, brm.logger, "error.billing.invalidBillId", err)
		return
	}

	detail, err := brm.billingService.GetCombinedBill(r.Context(), billId)
	if err != nil {
		handling.RespondError(w, brm.logger, "error.billing.fetchFailed", err)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.billing.billFetched"),
		gecho.WithData(detail),
		gecho.Send(),
	)
}
