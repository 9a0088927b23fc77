package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"catalog-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// writeError renders err in the envelope. Internal errors are logged with
// their cause; debug exposes the cause to the client.
func writeError(w http.ResponseWriter, log *zap.Logger, err error, operation string, debug bool) {
	appErr := utils.AsAppError(err)

	switch appErr.Kind {
	case utils.KindInternal:
		log.Error("Failed to "+operation, zap.Error(err))
	case utils.KindValidation:
		log.Debug(operation+" validation failed", zap.Any("errors", appErr.Fields))
	default:
		log.Debug(operation+" rejected",
			zap.String("message", appErr.Message),
			zap.Int("status", appErr.Kind.Status()))
	}

	utils.ResponseError(w, appErr, debug)
}

// decodeJSON reads the request body into dst. An empty body leaves dst at
// its zero value.
func decodeJSON(r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	return err == nil || errors.Is(err, io.EOF)
}

func invalidBody(w http.ResponseWriter) {
	utils.ResponseBadRequest(w, "Invalid request body", "The request body is not valid JSON.")
}

// pathID parses the {id} URL parameter. On failure it writes a 400 naming
// the resource and returns false.
func pathID(w http.ResponseWriter, r *http.Request, resource string) (int64, bool) {
	id, ok := utils.ParsePositiveID(chi.URLParam(r, "id"))
	if !ok {
		utils.ResponseBadRequest(w, "Invalid "+resource+" ID", "The provided "+resource+" ID is invalid.")
		return 0, false
	}
	return id, true
}

// currentIdentity returns the caller set by the authentication middleware.
func currentIdentity(w http.ResponseWriter, r *http.Request) (*utils.Identity, bool) {
	identity, ok := utils.GetIdentity(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthenticated", "User not authenticated.")
		return nil, false
	}
	return identity, true
}
