// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package regmap provides register-level access to the RK628 bridge.
//
// Every block inside the RK628 (the PHYs, the GRF, the CRU) is a window of
// 32-bit registers at a 4-byte stride. The windows are reached over the same
// I2C client, so a Map is cheap and several of them can share one bus.
package regmap

import (
	"context"
	"errors"
	"time"
)

var (
	ErrTimeout     = errors.New("regmap: timed out waiting for condition")
	ErrNotReadable = errors.New("regmap: register not readable")
	ErrAlignment   = errors.New("regmap: register not aligned to stride")
	ErrRange       = errors.New("regmap: register beyond max register")
)

// Map is the register channel used by device code.
type Map interface {
	Read(reg uint32) (uint32, error)
	Write(reg, val uint32) error
	// UpdateBits replaces the bits selected by mask with val.
	UpdateBits(reg, mask, val uint32) error
	// PollUntil reads reg until cond is true or timeout elapses. The last
	// value read is returned in both cases.
	PollUntil(ctx context.Context, reg uint32, cond func(uint32) bool, timeout time.Duration) (uint32, error)
}

// Range is an inclusive register range.
type Range struct {
	Min uint32
	Max uint32
}

func (r Range) contains(reg uint32) bool {
	return reg >= r.Min && reg <= r.Max
}

// Config describes a register window, much like a regmap_config.
type Config struct {
	Name        string
	RegStride   uint32
	MaxRegister uint32
	// Readable lists the ranges that may be read back. An empty list
	// means every register up to MaxRegister is readable.
	Readable []Range
}

func (c *Config) checkAccess(reg uint32, read bool) error {
	if c.RegStride != 0 && reg%c.RegStride != 0 {
		return ErrAlignment
	}
	if c.MaxRegister != 0 && reg > c.MaxRegister {
		return ErrRange
	}
	if !read || len(c.Readable) == 0 {
		return nil
	}
	for _, r := range c.Readable {
		if r.contains(reg) {
			return nil
		}
	}
	return ErrNotReadable
}
