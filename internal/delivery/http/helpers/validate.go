package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"conferenceportal/internal/domain"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

// Validator is implemented by request bodies that check their own fields.
// Validate returns one message per problem; none means valid.
type Validator interface {
	Validate() []string
}

// DecodeJSON strictly decodes exactly one JSON object from the request body
// into dest and then runs dest's Validate method if it has one. Every failure
// wraps domain.ErrInvalidInput.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, describeDecodeError(err))
	}
	if dec.More() {
		return fmt.Errorf("%w: request body must hold a single JSON object", domain.ErrInvalidInput)
	}
	if v, ok := dest.(Validator); ok {
		if problems := v.Validate(); len(problems) > 0 {
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(problems, "; "))
		}
	}
	return nil
}

func describeDecodeError(err error) string {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		sizeErr   *http.MaxBytesError
	)
	switch {
	case errors.Is(err, io.EOF):
		return "request body is empty"
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "request body is truncated"
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("malformed JSON at byte %d", syntaxErr.Offset)
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return fmt.Sprintf("field %q must be %s", typeErr.Field, typeErr.Type)
	case errors.As(err, &sizeErr):
		return fmt.Sprintf("request body exceeds %d bytes", sizeErr.Limit)
	default:
		// DisallowUnknownFields reports `json: unknown field "x"`.
		return strings.TrimPrefix(err.Error(), "json: ")
	}
}

// DecodeAndValidate runs DecodeJSON and, on failure, writes the bad_request
// envelope. Callers return as soon as it reports false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	err := DecodeJSON(w, r, dest)
	if err == nil {
		return true
	}
	status, code := StatusForError(err)
	WriteJSONError(w, status, code, err.Error())
	return false
}
