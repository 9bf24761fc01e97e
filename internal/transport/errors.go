package transport

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// StatusError is a non-2xx response from the remote. The body text is
// kept because the remote reports its reasons there rather than in the
// status line.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

func newStatusError(rq *http.Request, statusCode int, body []byte) *StatusError {
	return &StatusError{
		Method:     rq.Method,
		URL:        rq.URL.String(),
		StatusCode: statusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

func asStatusError(err error, target **StatusError) bool {
	return errors.As(err, target)
}
