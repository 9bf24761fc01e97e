// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nimbusid/usersync/internal/logging"
	"github.com/nimbusid/usersync/internal/monitoring"
)

var _ monitoring.MonitorInterface = (*Monitor)(nil)

type Monitor struct {
	service string

	responseTime *prometheus.HistogramVec
	availability *prometheus.GaugeVec

	logger logging.LoggerInterface
}

func (m *Monitor) GetService() string {
	return m.service
}

func (m *Monitor) SetResponseTimeMetric(tags map[string]string, seconds float64) error {
	metric, err := m.responseTime.GetMetricWith(normalize(tags, "route", "status"))
	if err != nil {
		return err
	}
	metric.Observe(seconds)
	return nil
}

func (m *Monitor) SetDependencyAvailability(tags map[string]string, available float64) error {
	metric, err := m.availability.GetMetricWith(normalize(tags, "component"))
	if err != nil {
		return err
	}
	metric.Set(available)
	return nil
}

// normalize restricts tags to the labels the metric was registered with,
// filling in empty values for any that are missing.
func normalize(tags map[string]string, labels ...string) prometheus.Labels {
	result := make(prometheus.Labels, len(labels))
	for _, label := range labels {
		result[label] = tags[label]
	}
	return result
}

func NewMonitor(service string, logger logging.LoggerInterface) *Monitor {
	m := new(Monitor)

	m.service = service
	m.logger = logger

	m.responseTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: service,
			Name:      "response_time_seconds",
			Help:      "Response time by route and status.",
		},
		[]string{"route", "status"},
	)
	m.availability = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: service,
			Name:      "dependency_available",
			Help:      "Whether a dependency is reachable (1) or not (0).",
		},
		[]string{"component"},
	)

	for _, c := range []prometheus.Collector{m.responseTime, m.availability} {
		if err := prometheus.Register(c); err != nil {
			m.logger.Warnf("metric registration failed: %v", err)
		}
	}

	return m
}
