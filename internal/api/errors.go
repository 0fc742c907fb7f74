package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"sculptor/internal/services"
)

const maxErrorBody = 8 << 10

// StatusError carries an HTTP failure status and the service-provided detail
// message when one was present in the response body.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if strings.TrimSpace(e.Detail) == "" {
		return fmt.Sprintf("http %d", e.StatusCode)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, strings.TrimSpace(e.Detail))
}

// ErrorDetail extracts the service-provided detail message from err, if any.
// Callers use it to show the service's own words and fall back to a generic
// message otherwise.
func ErrorDetail(err error) (string, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && strings.TrimSpace(statusErr.Detail) != "" {
		return strings.TrimSpace(statusErr.Detail), true
	}
	return "", false
}

func responseError(op string, resp *http.Response) error {
	detail := decodeDetail(resp.Body)
	statusErr := &StatusError{StatusCode: resp.StatusCode, Detail: detail}

	marker := services.ErrRemote
	switch {
	case resp.StatusCode == http.StatusNotFound:
		marker = services.ErrNotFound
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		marker = services.ErrValidation
	}
	return services.Wrap(marker, "api", op, "", statusErr)
}

// decodeDetail pulls the optional FastAPI-style {"detail": ...} message out
// of an error response body.
func decodeDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Detail)
}
