// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package monitoring

type MonitorInterface interface {
	GetService() string
	SetResponseTimeMetric(tags map[string]string, seconds float64) error
	SetDependencyAvailability(tags map[string]string, available float64) error
}
