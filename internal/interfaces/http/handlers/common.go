// Package handlers implements the HTTP endpoints over the composed view.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/turtacn/GrayZone-Monitor/pkg/errors"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Cause   string `json:"cause,omitempty"`
}

// writeAppError maps err to its HTTP status.  Server-side failures other
// than upstream and availability errors are masked.
func writeAppError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	resp := ErrorResponse{Code: code.String(), Message: err.Error()}
	var ae *errors.AppError
	if stderrors.As(err, &ae) {
		resp.Message = ae.Message
		resp.Detail = ae.Detail
		if ae.Cause != nil {
			resp.Cause = ae.Cause.Error()
		}
	}
	if status == http.StatusInternalServerError {
		resp = ErrorResponse{Code: errors.ErrCodeInternal.String(), Message: "internal server error"}
	}
	writeJSON(w, status, resp)
}

//Personal.AI order the ending
