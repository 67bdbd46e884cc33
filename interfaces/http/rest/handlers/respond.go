package handlers

import (
	"encoding/json"
	"net/http"

	"caseboard/pkg/common"
	pkgerrors "caseboard/pkg/errors"

	"go.uber.org/zap"
)

func respondJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	writeEnvelope(w, logger, status, common.SuccessResponse(data))
}

func respondError(w http.ResponseWriter, logger *zap.Logger, status int, message string) {
	writeEnvelope(w, logger, status, common.ErrorResponse(errorCode(status), message, nil))
}

// respondAppError maps a domain error onto its HTTP status. Unknown error
// types become 500 with a generic message so internals never leak.
func respondAppError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		writeEnvelope(w, logger, appErr.HTTPStatus,
			common.ErrorResponse(string(appErr.Type), appErr.Message, appErr.Details))
		return
	}
	logger.Error("unclassified handler error", zap.Error(err))
	respondError(w, logger, http.StatusInternalServerError, "Internal server error")
}

func writeEnvelope(w http.ResponseWriter, logger *zap.Logger, status int, envelope common.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

// errorCode maps plain handler-level failures onto the error taxonomy so
// every error envelope carries a code, not just AppError-backed ones.
func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return string(pkgerrors.ErrorTypeValidation)
	case http.StatusNotFound:
		return string(pkgerrors.ErrorTypeNotFound)
	case http.StatusConflict:
		return string(pkgerrors.ErrorTypeConflict)
	default:
		return string(pkgerrors.ErrorTypeInternal)
	}
}
