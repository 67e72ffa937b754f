// Package response writes the JSON envelope every API endpoint answers with.
package response

import (
	"encoding/json"
	"net/http"

	pkgerror "github.com/fleetcrm/fleetcrm/pkg/error"
)

// Envelope is {success, message, data}. Data is null on failures.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func WriteJSON(w http.ResponseWriter, status int, ok bool, message string, data interface{}) {
	WriteJSONRaw(w, status, Envelope{Success: ok, Message: message, Data: data})
}

// WriteJSONRaw skips the envelope. The M-Pesa callback ack uses it.
func WriteJSONRaw(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func Success(w http.ResponseWriter, status int, message string, data interface{}) {
	WriteJSON(w, status, true, message, data)
}

func fail(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, false, message, nil)
}

func Unauthorized(w http.ResponseWriter, message string) {
	fail(w, http.StatusUnauthorized, message)
}

func Forbidden(w http.ResponseWriter, message string) {
	fail(w, http.StatusForbidden, message)
}

func UnprocessableEntity(w http.ResponseWriter, message string) {
	fail(w, http.StatusUnprocessableEntity, message)
}

func TooManyRequests(w http.ResponseWriter, message string) {
	fail(w, http.StatusTooManyRequests, message)
}

func InternalServerError(w http.ResponseWriter, message string) {
	fail(w, http.StatusInternalServerError, message)
}

// AppError writes err with its mapped status and message.
func AppError(w http.ResponseWriter, err *pkgerror.AppError) {
	fail(w, err.Status, err.Message)
}
