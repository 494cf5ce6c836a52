// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cru drives clock gates and reset lines of the RK628 clock and
// reset unit.
//
// CRU registers use the Rockchip write-enable convention: the upper 16 bits
// of a written word select which of the lower 16 bits take effect, so no
// read-modify-write is needed and concurrent writers cannot clobber each
// other.
package cru

import (
	"fmt"

	"github.com/u-root/rk628/pkg/regmap"
)

const (
	CRU_BASE          uint32 = 0xc0000
	CRU_GATE_CON00    uint32 = CRU_BASE + 0x0180
	CRU_SOFTRST_CON00 uint32 = CRU_BASE + 0x0400
	CRU_MAX_REGISTER  uint32 = CRU_BASE + 0x0480
)

// Config is the register window for the CRU.
var Config = regmap.Config{
	Name:        "cru",
	RegStride:   4,
	MaxRegister: CRU_MAX_REGISTER,
}

func hiword(bit uint, set bool) uint32 {
	v := uint32(1) << (bit + 16)
	if set {
		v |= 1 << bit
	}
	return v
}

// Gate is a single clock gate bit. A set gate bit stops the clock.
type Gate struct {
	m   regmap.Map
	reg uint32
	bit uint
}

// NewGate returns the gate at bit of CRU_GATE_CONxx register reg.
func NewGate(m regmap.Map, reg uint32, bit uint) (*Gate, error) {
	if bit > 15 {
		return nil, fmt.Errorf("gate bit %d out of range", bit)
	}
	return &Gate{m: m, reg: reg, bit: bit}, nil
}

func (g *Gate) Enable() error {
	return g.m.Write(g.reg, hiword(g.bit, false))
}

func (g *Gate) Disable() error {
	return g.m.Write(g.reg, hiword(g.bit, true))
}

// Reset is one reset line of the reset generation unit.
type Reset struct {
	m  regmap.Map
	id ResetID
}

func NewReset(m regmap.Map, id ResetID) (*Reset, error) {
	if id < 0 || id >= NumResets {
		return nil, fmt.Errorf("invalid reset line %d", int(id))
	}
	return &Reset{m: m, id: id}, nil
}

func (r *Reset) reg() (uint32, uint) {
	return CRU_SOFTRST_CON00 + uint32(r.id/16)*4, uint(r.id % 16)
}

func (r *Reset) Assert() error {
	reg, bit := r.reg()
	if err := r.m.Write(reg, hiword(bit, true)); err != nil {
		return fmt.Errorf("assert %v: %w", r.id, err)
	}
	return nil
}

func (r *Reset) Deassert() error {
	reg, bit := r.reg()
	if err := r.m.Write(reg, hiword(bit, false)); err != nil {
		return fmt.Errorf("deassert %v: %w", r.id, err)
	}
	return nil
}

func (r *Reset) String() string {
	return "rgu_" + r.id.String()
}
