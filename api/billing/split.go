package billing

import (
	"net/http"

	"seeu_cafe_server/api/health"
	"seeu_cafe_server/handling"
	"seeu_cafe_server/lib"
	"seeu_cafe_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/prometheus/client_golang/prometheus"
)

// SplitPayBill settles a pending combined bill with multiple payments that
// together cover the final amount exactly.
func (brm *BillingRoutesManager) SplitPayBill(w http.ResponseWriter, r *http.Request) {
	billId, err := handling.ParseIdParam(r)
	if err != nil {
		handling.RespondError(w, brm.logger, "error.billing.invalidBillId", err)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.SplitPayRequest](r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.billing.invalidRequestBody"),
			gecho.WithData(err),
			gecho.Send(),
		)
		return
	}

	result, err := brm.settlementService.SplitPayCombinedBill(r.Context(), billId, body)
	if err != nil {
		handling.RespondError(w, brm.logger, "error.billing.settlementFailed", err)
		return
	}

	health.SettlementsTotal.With(prometheus.Labels{"mode": "split"}).Inc()

	gecho.Success(w,
		gecho.WithMessage("success.billing.billSettled"),
		gecho.WithData(result),
		gecho.Send(),
	)
}
