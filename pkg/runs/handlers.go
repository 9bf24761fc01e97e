// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package runs

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nimbusid/usersync/internal/logging"
	"github.com/nimbusid/usersync/internal/monitoring"
	"github.com/nimbusid/usersync/internal/tracing"
)

type API struct {
	service    ServiceInterface
	middleware *AuthMiddleware

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	if a.middleware != nil {
		mux = mux.With(a.middleware.Authenticate).(*chi.Mux)
	}
	mux.Post("/api/v0/sync", a.handleTrigger)
	mux.Get("/api/v0/sync/last", a.handleLast)
}

func (a *API) handleTrigger(w http.ResponseWriter, r *http.Request) {
	result, err := a.service.Trigger(r.Context())
	if err != nil {
		if errors.Is(err, ErrRunInProgress) {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		a.logger.Errorf("failed to trigger sync: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if !result.Succeeded() {
		w.WriteHeader(http.StatusBadGateway)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	json.NewEncoder(w).Encode(result)
}

func (a *API) handleLast(w http.ResponseWriter, r *http.Request) {
	result := a.service.Last(r.Context())
	if result == nil {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "no sync has run yet"})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

func NewAPI(
	service ServiceInterface,
	middleware *AuthMiddleware,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	a := new(API)

	a.service = service
	a.middleware = middleware

	a.tracer = tracer
	a.monitor = monitor
	a.logger = logger

	return a
}
