package utils

import (
	"encoding/json"
	"net/http"
)

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// ResponseJSON writes JSON response with custom status code
func ResponseJSON(w http.ResponseWriter, code int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// ------------- Error responses -------------

// ResponseError renders err in the error envelope. The detail of internal
// errors is replaced by a generic text unless debug is set.
func ResponseError(w http.ResponseWriter, err error, debug bool) {
	appErr := AsAppError(err)

	resp := Response{
		Success: false,
		Message: appErr.Message,
		Error:   appErr.Detail,
	}
	if len(appErr.Fields) > 0 {
		resp.Errors = appErr.Fields
	}
	if appErr.Kind == KindInternal && debug && appErr.Err != nil {
		resp.Error = appErr.Err.Error()
	}

	ResponseJSON(w, appErr.Kind.Status(), resp)
}

// returns 400 Bad Request
func ResponseBadRequest(w http.ResponseWriter, message, detail string) {
	ResponseJSON(w, http.StatusBadRequest, Response{Message: message, Error: detail})
}

// returns 401 Unauthorized
func ResponseUnauthorized(w http.ResponseWriter, message, detail string) {
	ResponseJSON(w, http.StatusUnauthorized, Response{Message: message, Error: detail})
}

// returns 404 Not Found
func ResponseNotFound(w http.ResponseWriter, message, detail string) {
	ResponseJSON(w, http.StatusNotFound, Response{Message: message, Error: detail})
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter, message, detail string) {
	ResponseJSON(w, http.StatusInternalServerError, Response{Message: message, Error: detail})
}
