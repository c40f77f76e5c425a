package routes

import (
	"errors"
	"io"
	"net/http"

	"github.com/zkiln/radmin/kv"
	"github.com/zkiln/radmin/kvjson"
	"github.com/zkiln/radmin/radmin"
	"github.com/zkiln/radmin/util/httputil"
	"github.com/zkiln/radmin/util/log"
)

// maxRequestBytes bounds request and record bodies.
const maxRequestBytes = 1 << 20

func newAdminHandler(admin *radmin.Admin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		request, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
		if err != nil {
			httputil.BadRequest(ctx, w, "failed to read request: %s", err)
			return
		}
		log.Infow(ctx, "admin request", "bytes", len(request))
		result, err := admin.Run(ctx, request)
		if err != nil {
			writeAdminError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(result); err != nil {
			log.Errorw(ctx, "error writing response", "error", err)
		}
	}
}

// writeAdminError maps request failures to status codes. Malformed requests
// are the client's fault; a profile the service does not know is not found;
// any other service status is reported as a bad gateway.
func writeAdminError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	var serviceErr radmin.ServiceError
	switch {
	case kvjson.IsSyntaxError(err),
		errors.Is(err, kv.RequiredKeyMissingError{}),
		errors.Is(err, radmin.InvalidRequestError{}),
		errors.Is(err, radmin.UnknownFunctionError{}):
		httputil.Error(ctx, w, http.StatusBadRequest, err)
	case errors.Is(err, radmin.UnsupportedFunctionError{}):
		httputil.Error(ctx, w, http.StatusNotImplemented, err)
	case errors.As(err, &serviceErr):
		if serviceErr.Status == radmin.StatusNotFound {
			httputil.Error(ctx, w, http.StatusNotFound, err)
			return
		}
		httputil.Error(ctx, w, http.StatusBadGateway, err)
	default:
		httputil.InternalServerError(ctx, w, "failed to run request: %s", err)
	}
}
