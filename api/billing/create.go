package billing

import (
	"net/http"

	"seeu_cafe_server/handling"
	"seeu_cafe_server/lib"
	"seeu_cafe_server/structs"

	"github.com/MonkyMars/gecho"
)

// CreateBill merges the unpaid orders of the requested tables into one
// pending combined bill.
func (brm *BillingRoutesManager) CreateBill(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CombineTablesRequest](r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.billing.invalidRequestBody"),
			gecho.WithData(err),
			gecho.Send(),
		)
		return
	}

	created, err := brm.billingService.CreateCombinedBill(r.Context(), body)
	if err != nil {
		handling.RespondError(w, brm.logger, "error.billing.createFailed", err)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.billing.billCreated"),
		gecho.WithData(created),
		gecho.Send(),
	)
}
