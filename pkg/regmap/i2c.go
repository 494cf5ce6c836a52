// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regmap

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/jmhodges/clock"
	"periph.io/x/conn/v3/i2c"
)

// DefaultAddress is the RK628 I2C slave address.
const DefaultAddress uint16 = 0x50

// I2C is a Map backed by the RK628 I2C slave interface. Register addresses
// and values are both sent as 32-bit little-endian words.
type I2C struct {
	d   i2c.Dev
	cfg Config
	clk clock.Clock
	// Serializes transfers and read-modify-write cycles. Windows sharing
	// a bus should share the lock, see NewI2CWindow.
	m *sync.Mutex
}

// NewI2C returns a map for the register window described by cfg.
func NewI2C(bus i2c.Bus, addr uint16, cfg Config, clk clock.Clock) *I2C {
	return &I2C{
		d:   i2c.Dev{Bus: bus, Addr: addr},
		cfg: cfg,
		clk: clk,
		m:   &sync.Mutex{},
	}
}

// NewI2CWindow returns another window on the same device as r. Both maps
// share one lock so their transfers never interleave.
func (r *I2C) NewI2CWindow(cfg Config) *I2C {
	return &I2C{d: r.d, cfg: cfg, clk: r.clk, m: r.m}
}

func (r *I2C) String() string {
	return fmt.Sprintf("%s@%s/%#02x", r.cfg.Name, r.d.Bus, r.d.Addr)
}

func (r *I2C) read(reg uint32) (uint32, error) {
	if err := r.cfg.checkAccess(reg, true); err != nil {
		return 0, fmt.Errorf("%s: read %#08x: %w", r.cfg.Name, reg, err)
	}
	var w [4]byte
	var b [4]byte
	binary.LittleEndian.PutUint32(w[:], reg)
	if err := r.d.Tx(w[:], b[:]); err != nil {
		return 0, fmt.Errorf("%s: read %#08x: %w", r.cfg.Name, reg, err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func (r *I2C) write(reg, val uint32) error {
	if err := r.cfg.checkAccess(reg, false); err != nil {
		return fmt.Errorf("%s: write %#08x: %w", r.cfg.Name, reg, err)
	}
	var w [8]byte
	binary.LittleEndian.PutUint32(w[0:], reg)
	binary.LittleEndian.PutUint32(w[4:], val)
	if err := r.d.Tx(w[:], nil); err != nil {
		return fmt.Errorf("%s: write %#08x: %w", r.cfg.Name, reg, err)
	}
	return nil
}

func (r *I2C) Read(reg uint32) (uint32, error) {
	r.m.Lock()
	defer r.m.Unlock()
	return r.read(reg)
}

func (r *I2C) Write(reg, val uint32) error {
	r.m.Lock()
	defer r.m.Unlock()
	return r.write(reg, val)
}

func (r *I2C) UpdateBits(reg, mask, val uint32) error {
	r.m.Lock()
	defer r.m.Unlock()
	orig, err := r.read(reg)
	if err != nil {
		return err
	}
	v := (orig &^ mask) | (val & mask)
	if v == orig {
		return nil
	}
	return r.write(reg, v)
}

func (r *I2C) PollUntil(ctx context.Context, reg uint32, cond func(uint32) bool, timeout time.Duration) (uint32, error) {
	return Poll(ctx, r.clk, func() (uint32, error) { return r.Read(reg) }, cond, timeout)
}
