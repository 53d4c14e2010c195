package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/jsamuelsen11/projectboard/internal/adapters/http/dto"
	"github.com/jsamuelsen11/projectboard/internal/domain"
	"github.com/jsamuelsen11/projectboard/internal/platform/logging"
)

// maxJSONBodyBytes caps request bodies. A project is three short fields.
const maxJSONBodyBytes = 64 << 10

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "failed to encode response",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
}

// decodeJSONBody decodes a single JSON object into dst. On failure it writes
// a 400 problem whose field errors say what was wrong and returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))

	err := dec.Decode(dst)
	if err == nil && dec.More() {
		err = errTrailingData
	}
	if err != nil {
		dto.WriteErrorResponse(w, r, &domain.ValidationError{Fields: decodeFailure(err)})
		return false
	}
	return true
}

var errTrailingData = errors.New("trailing data")

// decodeFailure turns a decode error into field messages. Type mismatches
// are reported against the offending field; everything else against body.
func decodeFailure(err error) map[string]string {
	var (
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
		maxErr    *http.MaxBytesError
	)
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return map[string]string{typeErr.Field: "must be " + jsonKind(typeErr.Type)}
	case errors.As(err, &syntaxErr):
		return map[string]string{"body": fmt.Sprintf("invalid JSON at offset %d", syntaxErr.Offset)}
	case errors.As(err, &maxErr):
		return map[string]string{"body": fmt.Sprintf("must not exceed %d bytes", maxErr.Limit)}
	case errors.Is(err, io.EOF):
		return map[string]string{"body": "is required"}
	case errors.Is(err, errTrailingData):
		return map[string]string{"body": "must contain a single JSON object"}
	default:
		return map[string]string{"body": "invalid JSON"}
	}
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	default:
		return "a valid value"
	}
}

type validatable interface {
	Validate() error
}

// decodeAndValidate is decodeJSONBody followed by the DTO's own Validate.
func decodeAndValidate[T validatable](w http.ResponseWriter, r *http.Request, dst T) bool {
	if !decodeJSONBody(w, r, dst) {
		return false
	}
	if err := dst.Validate(); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return false
	}
	return true
}
