package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes bounds request bodies; none of our payloads come close.
const MaxBodyBytes = 1 << 20

var (
	ErrEmptyBody   = errors.New("httpx: request body is empty")
	ErrInvalidJSON = errors.New("httpx: request body is not valid json")
	ErrValidation  = errors.New("httpx: request failed validation")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeJSON reads a JSON body into dst and validates it against its
// `validate` struct tags. All failures collapse into one of the three
// sentinel errors above so handlers can map them to client errors without
// inspecting validator internals.
func DecodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	defer func() { _ = body.Close() }()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return ErrInvalidJSON
	}

	if err := validate.Struct(dst); err != nil {
		return ErrValidation
	}

	return nil
}
