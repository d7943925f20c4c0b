package billing

import (
	"net/http"

	"seeu_cafe_server/handling"
	"seeu_cafe_server/lib"
	"seeu_cafe_server/structs"

	"github.com/MonkyMars/gecho"
)

// CancelBill abandons a pending combined bill. The underlying orders stay
// unpaid and the tables stay occupied.
func (brm *BillingRoutesManager) CancelBill(w http.ResponseWriter, r *http.Request) {
	billId, err := handling.ParseIdParam(r)
	if err != nil {
		handling.RespondError(w, brm.logger, "error.billing.invalidBillId", err)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.CancelBillRequest](r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.billing.invalidRequestBody"),
			gecho.WithData(err),
			gecho.Send(),
		)
		return
	}

	if err := brm.billingService.CancelCombinedBill(r.Context(), billId, body.Reason); err != nil {
		handling.RespondError(w, brm.logger, "error.billing.cancelFailed", err)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.billing.billCancelled"),
		gecho.WithData(map[string]any{"bill_id": billId}),
		gecho.Send(),
	)
}
