// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package combtxphy drives the RK628 GVI/LVDS/MIPI combo transmit PHY.
//
// A Phy is configured with SetMode, which derives the PLL dividers from the
// requested clock, and then brought up with PowerOn, which programs the
// dividers, enables the selected output modules and waits for the PLL to
// lock. PowerOff returns the block to its idle, powered down state.
//
// A Phy does no locking of its own. Callers must not use one Phy from more
// than one goroutine at a time.
package combtxphy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmhodges/clock"
	"github.com/u-root/rk628/pkg/logger"
	"github.com/u-root/rk628/pkg/regmap"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	DefaultLockTimeout = 1000 * time.Microsecond

	resetPulse   = 10 * time.Microsecond
	dsiSettle    = 200 * time.Microsecond
	txIdleSettle = 100 * time.Microsecond
)

var (
	ErrInvalidRate = errors.New("combtxphy: requested rate out of range")
	ErrInvalidMode = errors.New("combtxphy: unsupported phy mode")
	ErrNotLocked   = errors.New("combtxphy: pll is not locked")
)

type Mode int

const (
	ModeUnset Mode = iota
	ModeMIPI
	ModeLVDS
	ModeGVI
)

func (m Mode) String() string {
	switch m {
	case ModeUnset:
		return "unset"
	case ModeMIPI:
		return "mipi"
	case ModeLVDS:
		return "lvds"
	case ModeGVI:
		return "gvi"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts "mipi" (or "dsi"), "lvds" and "gvi".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "mipi", "dsi", "mipi-dsi":
		return ModeMIPI, nil
	case "lvds":
		return ModeLVDS, nil
	case "gvi":
		return ModeGVI, nil
	}
	return ModeUnset, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Flags select which of the two PHY modules are driven.
type Flags uint8

const (
	ModuleA Flags = 1 << 0
	ModuleB Flags = 1 << 1
)

type State int

const (
	StateUninitialized State = iota
	StateConfigured
	StatePowered
	StateOff
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateConfigured:
		return "configured"
	case StatePowered:
		return "powered"
	case StateOff:
		return "off"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ClockControl gates the PHY bus clock.
type ClockControl interface {
	Enable() error
	Disable() error
}

// ResetControl drives the PHY reset line.
type ResetControl interface {
	Assert() error
	Deassert() error
}

// Device bundles the hardware a Phy needs. Regs is the PHY register window
// and GRF the general register file holding the reference clock select and
// the PLL lock status.
type Device struct {
	Regs  regmap.Map
	GRF   regmap.Map
	Pclk  ClockControl
	Reset ResetControl
}

type Phy struct {
	regs regmap.Map
	grf  regmap.Map
	pclk ClockControl
	rstc ResetControl

	clk         clock.Clock
	log         *zap.SugaredLogger
	lockTimeout time.Duration

	mode   Mode
	flags  Flags
	params Params
	state  State
}

type Option func(*Phy)

// WithClock sets the time source used for delays and lock polling.
func WithClock(clk clock.Clock) Option {
	return func(p *Phy) { p.clk = clk }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(p *Phy) { p.log = l }
}

// WithLockTimeout overrides DefaultLockTimeout.
func WithLockTimeout(d time.Duration) Option {
	return func(p *Phy) { p.lockTimeout = d }
}

func New(d Device, opts ...Option) *Phy {
	p := &Phy{
		regs:        d.Regs,
		grf:         d.GRF,
		pclk:        d.Pclk,
		rstc:        d.Reset,
		lockTimeout: DefaultLockTimeout,
	}
	for _, o := range opts {
		o(p)
	}
	if p.clk == nil {
		p.clk = clock.New()
	}
	if p.log == nil {
		p.log = logger.LogContainer.GetSimpleLogger()
	}
	return p
}

func (p *Phy) Mode() Mode { return p.mode }
func (p *Phy) Flags() Flags { return p.flags }
func (p *Phy) Params() Params { return p.params }
func (p *Phy) State() State { return p.state }
func (p *Phy) LockTimeout() time.Duration { return p.lockTimeout }

// SetMode computes the divider settings for mode from the composite width
// parameter (see EncodeWidth) and returns the width actually achievable:
// the real bit clock for MIPI and GVI, the unchanged width for LVDS. No
// register is written. On error the previous configuration is kept.
//
// GVI ignores the caller's flags: both modules are always enabled and
// Flags reports ModuleA|ModuleB.
func (p *Phy) SetMode(mode Mode, width int) (int, error) {
	var (
		params Params
		flags  Flags
		actual = width
		clkMHz int
	)
	switch mode {
	case ModeMIPI:
		flags = Flags(width & 0xff)
		pa, fhsc, err := MIPIParams(uint32(width) >> 8)
		if err != nil {
			return 0, err
		}
		params, actual = pa, int(fhsc)
		clkMHz = actual
	case ModeLVDS:
		flags = Flags(width & 0xff)
		params = LVDSParams(uint32(width) >> 8)
		clkMHz = int(uint32(width) >> 8)
	case ModeGVI:
		if width < 0 || width > gviWidthMask {
			return 0, fmt.Errorf("%w: gvi width %#x has bits outside %#x", ErrInvalidRate, width, gviWidthMask)
		}
		// Both modules always drive GVI.
		flags = ModuleA | ModuleB
		pa, fhsc, err := GVIParams(uint32(width))
		if err != nil {
			return 0, err
		}
		params, actual = pa, int(fhsc)
		clkMHz = actual
	default:
		return 0, fmt.Errorf("%w: %v", ErrInvalidMode, mode)
	}

	p.mode, p.flags, p.params = mode, flags, params
	if p.state != StatePowered {
		p.state = StateConfigured
	}
	rateMHz.WithLabelValues(mode.String()).Set(float64(clkMHz))
	p.log.Debugf("combtxphy: %v width %#x -> %d, %v flags %#x", mode, width, actual, params, flags)
	return actual, nil
}

// PowerOn brings the PHY up in the configured mode. It blocks for up to the
// lock timeout while the PLL settles. On failure the hardware is left where
// the sequence stopped; PowerOn may simply be called again since it starts
// by resetting the block.
func (p *Phy) PowerOn(ctx context.Context) error {
	var seq func(context.Context) error
	var refclk uint32
	switch p.mode {
	case ModeMIPI:
		seq, refclk = p.dsiPowerOn, TXPHY_REFCLK_MIPI
	case ModeLVDS:
		seq, refclk = p.lvdsPowerOn, TXPHY_REFCLK_LVDS
	case ModeGVI:
		seq, refclk = p.gviPowerOn, TXPHY_REFCLK_GVI
	default:
		return fmt.Errorf("%w: %v", ErrInvalidMode, p.mode)
	}
	powerOnTotal.WithLabelValues(p.mode.String()).Inc()

	if err := p.powerOn(ctx, refclk, seq); err != nil {
		p.state = StateOff
		return err
	}
	p.state = StatePowered
	return nil
}

func (p *Phy) powerOn(ctx context.Context, refclk uint32, seq func(context.Context) error) error {
	if err := p.pclk.Enable(); err != nil {
		return fmt.Errorf("enable pclk: %w", err)
	}
	if err := p.rstc.Assert(); err != nil {
		return err
	}
	p.clk.Sleep(resetPulse)
	if err := p.rstc.Deassert(); err != nil {
		return err
	}
	p.clk.Sleep(resetPulse)

	if err := p.regs.UpdateBits(COMBTXPHY_CON0,
		SW_TX_IDLE_MASK|SW_TX_PD_MASK|SW_PD_PLL,
		SW_TX_IDLE_ALL|SW_TX_PD_ALL|SW_PD_PLL); err != nil {
		return err
	}
	if err := p.grf.UpdateBits(GRF_POST_PROC_CON, SW_TXPHY_REFCLK_SEL_MASK, SW_TXPHY_REFCLK_SEL(refclk)); err != nil {
		return err
	}
	return seq(ctx)
}

// PowerOff idles all lanes, powers down the PLL, disables both modules and
// stops the bus clock. It is safe to call in any state and more than once.
// The clock is stopped even if the register update fails.
func (p *Phy) PowerOff() error {
	err := p.regs.UpdateBits(COMBTXPHY_CON0,
		SW_TX_IDLE_MASK|SW_TX_PD_MASK|SW_PD_PLL|SW_MODULEB_EN|SW_MODULEA_EN,
		SW_TX_IDLE_ALL|SW_TX_PD_ALL|SW_PD_PLL)
	if derr := p.pclk.Disable(); derr != nil {
		err = multierr.Append(err, fmt.Errorf("disable pclk: %w", derr))
	}
	p.state = StateOff
	return err
}

// Locked reports whether the PLL currently signals lock.
func (p *Phy) Locked() (bool, error) {
	v, err := p.grf.Read(GRF_DPHY0_STATUS)
	if err != nil {
		return false, err
	}
	locked := v&DPHY_PHYLOCK != 0
	if locked {
		pllLocked.WithLabelValues(p.mode.String()).Set(1)
	} else {
		pllLocked.WithLabelValues(p.mode.String()).Set(0)
	}
	return locked, nil
}
