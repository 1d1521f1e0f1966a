package vault

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	ErrInvalidAddress       = errors.New("invalid vault address")
	ErrUnsupportedKVVersion = errors.New("unsupported kv version")
	ErrRequest              = errors.New("vault request failed")
	ErrMalformedResponse    = errors.New("malformed vault response")
	ErrSecretNotFound       = errors.New("secret not found")
	ErrSecretNoData         = errors.New("secret no data")
)

const maxErrorBody = 512

// StatusError is returned when Vault answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	// Errors holds Vault's "errors" array, or the raw body when the
	// response did not carry one.
	Errors []string
}

func newStatusError(code int, body []byte) *StatusError {
	e := &StatusError{StatusCode: code}
	if gjson.ValidBytes(body) {
		if errs := gjson.GetBytes(body, "errors"); errs.IsArray() {
			errs.ForEach(func(_, value gjson.Result) bool {
				e.Errors = append(e.Errors, value.String())
				return true
			})
			return e
		}
	}
	if raw := strings.TrimSpace(string(body)); raw != "" {
		if len(raw) > maxErrorBody {
			raw = raw[:maxErrorBody] + "..."
		}
		e.Errors = []string{raw}
	}
	return e
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("vault responded with %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if len(e.Errors) > 0 {
		msg += ": " + strings.Join(e.Errors, "; ")
	}
	return msg
}

func (e *StatusError) Is(target error) bool {
	return target == ErrSecretNotFound && e.StatusCode == http.StatusNotFound
}
