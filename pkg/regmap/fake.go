// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regmap

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jmhodges/clock"
)

type OpKind int

const (
	OpWrite OpKind = iota
	OpUpdate
	OpPoll
)

func (k OpKind) String() string {
	switch k {
	case OpWrite:
		return "write"
	case OpUpdate:
		return "update"
	case OpPoll:
		return "poll"
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// Op is one recorded access on a Fake. Mask is only set for updates.
type Op struct {
	Kind OpKind
	Reg  uint32
	Mask uint32
	Val  uint32
}

func (o Op) String() string {
	if o.Kind == OpUpdate {
		return fmt.Sprintf("{%s @ %08x, mask %08x = %08x}", o.Kind, o.Reg, o.Mask, o.Val)
	}
	return fmt.Sprintf("{%s @ %08x = %08x}", o.Kind, o.Reg, o.Val)
}

// Fake is an in-memory register file. It records every write, update and
// poll so tests can check the exact programming sequence.
type Fake struct {
	cfg  Config
	clk  clock.Clock
	m    sync.Mutex
	regs map[uint32]uint32
	ops  []Op
	// Errors returned for accesses to the given registers.
	fail map[uint32]error
}

// NewFake returns an empty register file. Polls sleep on clk, so with a
// fake clock a timeout completes instantly.
func NewFake(cfg Config, clk clock.Clock) *Fake {
	return &Fake{
		cfg:  cfg,
		clk:  clk,
		regs: make(map[uint32]uint32),
		fail: make(map[uint32]error),
	}
}

// Set stores v without recording an op.
func (f *Fake) Set(reg, v uint32) {
	f.m.Lock()
	defer f.m.Unlock()
	f.regs[reg] = v
}

// Get returns the current value without recording an op.
func (f *Fake) Get(reg uint32) uint32 {
	f.m.Lock()
	defer f.m.Unlock()
	return f.regs[reg]
}

// Fail makes every later access to reg return err.
func (f *Fake) Fail(reg uint32, err error) {
	f.m.Lock()
	defer f.m.Unlock()
	f.fail[reg] = err
}

// Ops returns the recorded accesses and clears the record.
func (f *Fake) Ops() []Op {
	f.m.Lock()
	defer f.m.Unlock()
	ops := f.ops
	f.ops = nil
	return ops
}

// Snapshot returns a copy of all registers that have been touched.
func (f *Fake) Snapshot() map[uint32]uint32 {
	f.m.Lock()
	defer f.m.Unlock()
	s := make(map[uint32]uint32, len(f.regs))
	for k, v := range f.regs {
		s[k] = v
	}
	return s
}

// Registers returns the touched register addresses in ascending order.
func (f *Fake) Registers() []uint32 {
	s := f.Snapshot()
	regs := make([]uint32, 0, len(s))
	for r := range s {
		regs = append(regs, r)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i] < regs[j] })
	return regs
}

func (f *Fake) check(reg uint32, read bool) error {
	if err := f.cfg.checkAccess(reg, read); err != nil {
		return fmt.Errorf("%s: %#08x: %w", f.cfg.Name, reg, err)
	}
	return f.fail[reg]
}

func (f *Fake) Read(reg uint32) (uint32, error) {
	f.m.Lock()
	defer f.m.Unlock()
	if err := f.check(reg, true); err != nil {
		return 0, err
	}
	return f.regs[reg], nil
}

func (f *Fake) Write(reg, val uint32) error {
	f.m.Lock()
	defer f.m.Unlock()
	f.ops = append(f.ops, Op{Kind: OpWrite, Reg: reg, Val: val})
	if err := f.check(reg, false); err != nil {
		return err
	}
	f.regs[reg] = val
	return nil
}

func (f *Fake) UpdateBits(reg, mask, val uint32) error {
	f.m.Lock()
	defer f.m.Unlock()
	f.ops = append(f.ops, Op{Kind: OpUpdate, Reg: reg, Mask: mask, Val: val})
	if err := f.check(reg, true); err != nil {
		return err
	}
	f.regs[reg] = (f.regs[reg] &^ mask) | (val & mask)
	return nil
}

func (f *Fake) PollUntil(ctx context.Context, reg uint32, cond func(uint32) bool, timeout time.Duration) (uint32, error) {
	f.m.Lock()
	f.ops = append(f.ops, Op{Kind: OpPoll, Reg: reg})
	f.m.Unlock()
	return Poll(ctx, f.clk, func() (uint32, error) { return f.Read(reg) }, cond, timeout)
}
