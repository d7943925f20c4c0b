package billing

import (
	"net/http"

	"seeu_cafe_server/handling"
	"seeu_cafe_server/lib"
	"seeu_cafe_server/structs"

	"github.com/MonkyMars/gecho"
)

// PreviewBill computes the combined bill for a set of tables without
// persisting anything. The numbers are advisory; creation re-validates.
func (brm *BillingRoutesManager) PreviewBill(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CombineTablesRequest](r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.billing.invalidRequestBody"),
			gecho.WithData(err),
			gecho.Send(),
		)
		return
	}

	preview, err := brm.billingService.PreviewCombinedBill(r.Context(), body.TableIds)
	if err != nil {
		handling.RespondError(w, brm.logger, "error.billing.previewFailed", err)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.billing.previewComputed"),
		gecho.WithData(preview),
		gecho.Send(),
	)
}
