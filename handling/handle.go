package handling

import (
	"net/http"

	"seeu_cafe_server/lib"

	"github.com/MonkyMars/gecho"
)

// RespondError maps service errors onto HTTP responses. Caller-correctable
// failures carry their kind and detail data through; everything else is an
// opaque 500 with the real error logged server-side.
func RespondError(w http.ResponseWriter, logger *gecho.Logger, msgKey string, err error) {
	if reqErr, ok := lib.AsRequestError(err); ok {
		data := map[string]any{"error": reqErr.Message}
		for k, v := range reqErr.Data {
			data[k] = v
		}

		switch reqErr.Kind {
		case lib.KindNotFound:
			gecho.NotFound(w, gecho.WithMessage(msgKey), gecho.WithData(data), gecho.Send())
		case lib.KindConflict:
			gecho.Conflict(w, gecho.WithMessage(msgKey), gecho.WithData(data), gecho.Send())
		default:
			gecho.BadRequest(w, gecho.WithMessage(msgKey), gecho.WithData(data), gecho.Send())
		}
		return
	}

	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msgKey), gecho.WithCallerSkip(3))
	gecho.InternalServerError(w, gecho.WithMessage(msgKey), gecho.Send())
}
