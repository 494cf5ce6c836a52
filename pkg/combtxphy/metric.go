// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package combtxphy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/u-root/rk628/pkg/metric"
)

var (
	modeLabel = []string{"mode"}

	powerOnTotal = metric.Counter(metric.MetricOpts{
		Namespace: "rk628",
		Subsystem: "combtxphy",
		Name:      "power_on_total",
		Help:      "Number of power on sequences started",
	}, modeLabel)
	pllLockFailures = metric.Counter(metric.MetricOpts{
		Namespace: "rk628",
		Subsystem: "combtxphy",
		Name:      "pll_lock_failures_total",
		Help:      "Number of times the PLL did not lock within the timeout",
	}, modeLabel)
	lockWaitSeconds = metric.Histogram(metric.MetricOpts{
		Namespace: "rk628",
		Subsystem: "combtxphy",
		Name:      "pll_lock_wait_seconds",
		Help:      "Time spent waiting for the PLL to lock",
	}, prometheus.ExponentialBuckets(10e-6, 2, 10), modeLabel)
	rateMHz = metric.Gauge(metric.MetricOpts{
		Namespace: "rk628",
		Subsystem: "combtxphy",
		Name:      "rate_mhz",
		Help:      "Achieved bit clock of the last configuration, pixel clock for LVDS, in MHz",
	}, modeLabel)
	pllLocked = metric.Gauge(metric.MetricOpts{
		Namespace: "rk628",
		Subsystem: "combtxphy",
		Name:      "pll_locked",
		Help:      "1 if the PLL reported lock at the last check",
	}, modeLabel)
)
