package apiutil

import (
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/shopcenter/internal/errs"
)

type Response struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

type ResponseError struct {
	Success bool   `json:"success"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func SuccessJSON(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Response{Success: true, Data: data})
}

// ErrorJSON maps the error's kind onto an HTTP status. Unclassified errors
// come out as a generic 500 so internals never reach the client.
func ErrorJSON(w http.ResponseWriter, err error) {
	writeJSON(w, errs.HTTPStatus(err), ResponseError{
		Success: false,
		Kind:    string(errs.KindOf(err)),
		Message: errs.MessageOf(err),
	})
}

func BadRequestJSON(w http.ResponseWriter, message string) {
	ErrorJSON(w, errs.New(errs.KindInvalidInput, message))
}
