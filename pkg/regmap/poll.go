// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regmap

import (
	"context"
	"time"

	"github.com/jmhodges/clock"
	"github.com/jpillora/backoff"
)

const (
	pollMinInterval = time.Microsecond
	pollMaxInterval = 100 * time.Microsecond
)

// Poll calls read until cond returns true for the value read, or until
// timeout has passed on clk. Like readx_poll_timeout, one final read is made
// after the deadline so that a slow sleeper does not report a spurious
// timeout.
func Poll(ctx context.Context, clk clock.Clock, read func() (uint32, error), cond func(uint32) bool, timeout time.Duration) (uint32, error) {
	b := &backoff.Backoff{
		Min:    pollMinInterval,
		Max:    pollMaxInterval,
		Factor: 2,
	}
	deadline := clk.Now().Add(timeout)
	for {
		v, err := read()
		if err != nil {
			return v, err
		}
		if cond(v) {
			return v, nil
		}
		if err := ctx.Err(); err != nil {
			return v, err
		}
		if !clk.Now().Before(deadline) {
			v, err = read()
			if err != nil {
				return v, err
			}
			if cond(v) {
				return v, nil
			}
			return v, ErrTimeout
		}
		clk.Sleep(b.Duration())
	}
}
