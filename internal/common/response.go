package common

import (
	"encoding/json"
	"net/http"
	"time"
)

// ServerDateFormat is the layout of the serverdatetime envelope field.
const ServerDateFormat = "02-01-2006"

// DBVersion is reported in every envelope so clients can detect schema drift.
const DBVersion = 1.0

// Envelope is the response shape shared by every JSON endpoint.
type Envelope struct {
	Success        bool    `json:"success"`
	Status         int     `json:"status"`
	Error          bool    `json:"error"`
	Messages       string  `json:"messages"`
	Code           string  `json:"code,omitempty"`
	Result         any     `json:"result"`
	ServerDateTime string  `json:"serverdatetime"`
	DBVersion      float64 `json:"db_version"`
}

// Now is the clock used for serverdatetime.
var Now = time.Now

// JSON writes the provided value to the response writer as JSON.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Success renders a successful envelope.
func Success(w http.ResponseWriter, status int, message string, result any) {
	JSON(w, status, newEnvelope(true, status, "", message, result))
}

// Failure renders a failed envelope without a machine-readable code.
func Failure(w http.ResponseWriter, status int, message string, result any) {
	JSON(w, status, newEnvelope(false, status, "", message, result))
}

// JSONError renders a failed envelope carrying an error code. Details, when
// present, become the envelope result.
func JSONError(w http.ResponseWriter, status int, code, message string, details any) {
	JSON(w, status, newEnvelope(false, status, code, message, details))
}

// WriteError maps err onto an envelope. AppErrors keep their status and code;
// anything else is reported as a 500 with the error text.
func WriteError(w http.ResponseWriter, err error) {
	if app, ok := AsAppError(err); ok {
		status := app.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		msg := app.Message
		if msg == "" {
			msg = app.Error()
		}
		JSONError(w, status, app.Code, msg, app.Details)
		return
	}
	JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
}

func newEnvelope(ok bool, status int, code, message string, result any) Envelope {
	if result == nil {
		result = map[string]any{}
	}
	return Envelope{
		Success:        ok,
		Status:         status,
		Error:          !ok,
		Messages:       message,
		Code:           code,
		Result:         result,
		ServerDateTime: Now().Format(ServerDateFormat),
		DBVersion:      DBVersion,
	}
}
