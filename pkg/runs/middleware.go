// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package runs

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/nimbusid/usersync/internal/logging"
	"github.com/nimbusid/usersync/internal/tracing"
)

// AuthMiddleware guards the run endpoints with a static bearer token.
type AuthMiddleware struct {
	token string

	tracer tracing.TracingInterface
	logger logging.LoggerInterface
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(m.token)) != 1 {
			m.logger.Debugf("rejected request to %s with invalid token", r.URL.Path)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func NewAuthMiddleware(token string, tracer tracing.TracingInterface, logger logging.LoggerInterface) *AuthMiddleware {
	m := new(AuthMiddleware)

	m.token = token

	m.tracer = tracer
	m.logger = logger

	return m
}
