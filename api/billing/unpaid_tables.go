package billing

import (
	"net/http"

	"seeu_cafe_server/handling"

	"github.com/MonkyMars/gecho"
)

// ListUnpaidTables returns every occupied table that still has settleable
// orders, with per-order detail for the combine-tables UI.
func (brm *BillingRoutesManager) ListUnpaidTables(w http.ResponseWriter, r *http.Request) {
	tables, err := brm.tableService.ListUnpaidTables(r.Context())
	if err != nil {
		handling.RespondError(w, brm.logger, "error.billing.unpaidTablesFailed", err)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.billing.unpaidTablesFetched"),
		gecho.WithData(map[string]any{
			"tables": tables,
			"count":  len(tables),
		}),
		gecho.Send(),
	)
}
