package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goliatone/go-catalogform/pkg/plugin"
	"github.com/goliatone/go-catalogform/pkg/schema"
)

type HTTPError interface {
	error
	StatusCode() int
}

// StatusError pairs an error with the HTTP status it maps to.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps engine errors to responses. Plugin authoring bugs are
// server errors; everything else defaults to 500 unless it carries a code.
func statusFor(err error) (int, string) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		return httpErr.StatusCode(), "request_error"
	}
	var contractErr *plugin.ContractError
	if errors.As(err, &contractErr) {
		return http.StatusInternalServerError, "plugin_contract"
	}
	var compileErr *schema.CompilationError
	if errors.As(err, &compileErr) {
		return http.StatusInternalServerError, "schema_compilation"
	}
	return http.StatusInternalServerError, "internal"
}

func writeError(w http.ResponseWriter, err error) {
	code, kind := statusFor(err)
	writeJSON(w, code, errorResponse{Error: errorBody{
		Status:  code,
		Code:    kind,
		Message: err.Error(),
	}})
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}
