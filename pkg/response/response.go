package response

import (
	"encoding/json"
	"net/http"

	"github.com/taiwoajasa245/quran-sukoon-api/pkg/errorsx"
)

type APIResponse struct {
	Status  int         `json:"status"`
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Reason  string      `json:"reason,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func JSON(w http.ResponseWriter, statusCode int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

func Success(w http.ResponseWriter, data interface{}, message string) {
	JSON(w, http.StatusOK, APIResponse{
		Status:  http.StatusOK,
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Error(w http.ResponseWriter, statusCode int, message string, errs interface{}) {
	JSON(w, statusCode, APIResponse{
		Status:  statusCode,
		Success: false,
		Message: message,
		Errors:  errs,
	})
}

// Failure writes err using the status that matches its reason code.
// A message attached with errorsx.WrapMessage wins over message; the raw
// error goes into errors.
func Failure(w http.ResponseWriter, err error, message string) {
	reason := errorsx.Reason(err)
	status := StatusFor(reason)
	JSON(w, status, APIResponse{
		Status:  status,
		Success: false,
		Message: errorsx.Message(err, message),
		Reason:  string(reason),
		Errors:  err.Error(),
	})
}

func StatusFor(reason errorsx.ReasonCode) int {
	switch reason {
	case errorsx.ReasonInvalidInput:
		return http.StatusBadRequest
	case errorsx.ReasonConfig, errorsx.ReasonPlayback:
		return http.StatusServiceUnavailable
	case errorsx.ReasonNetwork, errorsx.ReasonService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
