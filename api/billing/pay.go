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

// PayBill settles a pending combined bill in full.
func (brm *BillingRoutesManager) PayBill(w http.ResponseWriter, r *http.Request) {
	billId, err := handling.ParseIdParam(r)
	if err != nil {
		handling.RespondError(w, brm.logger, "error.billing.invalidBillId", err)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.PayBillRequest](r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.billing.invalidRequestBody"),
			gecho.WithData(err),
			gecho.Send(),
		)
		return
	}

	result, err := brm.settlementService.PayCombinedBill(r.Context(), billId, body)
	if err != nil {
		handling.RespondError(w, brm.logger, "error.billing.settlementFailed", err)
		return
	}

	health.SettlementsTotal.With(prometheus.Labels{"mode": "full"}).Inc()

	gecho.Success(w,
		gecho.WithMessage("success.billing.billSettled"),
		gecho.WithData(result),
		gecho.Send(),
	)
}
