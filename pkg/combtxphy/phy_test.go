// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package combtxphy

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jmhodges/clock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/u-root/rk628/pkg/regmap"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// host records clock and reset calls in order.
type host struct {
	calls      []string
	disableErr error
}

func (h *host) Enable() error   { h.calls = append(h.calls, "pclk on"); return nil }
func (h *host) Disable() error  { h.calls = append(h.calls, "pclk off"); return h.disableErr }
func (h *host) Assert() error   { h.calls = append(h.calls, "assert"); return nil }
func (h *host) Deassert() error { h.calls = append(h.calls, "deassert"); return nil }

type testPhy struct {
	*Phy
	// bus holds both the PHY and the GRF registers so the order of
	// accesses across the two blocks is recorded.
	bus  *regmap.Fake
	host *host
	clk  clock.FakeClock
	logs *observer.ObservedLogs
}

func newTestPhy(t *testing.T) *testPhy {
	t.Helper()
	clk := clock.NewFake()
	bus := regmap.NewFake(regmap.Config{Name: "rk628", RegStride: 4}, clk)
	h := &host{}
	core, logs := observer.New(zapcore.DebugLevel)
	p := New(Device{Regs: bus, GRF: bus, Pclk: h, Reset: h},
		WithClock(clk), WithLogger(zap.New(core).Sugar()))
	return &testPhy{Phy: p, bus: bus, host: h, clk: clk, logs: logs}
}

func encode(t *testing.T, mode Mode, rateMHz uint32, flags Flags) int {
	t.Helper()
	w, err := EncodeWidth(mode, rateMHz, flags)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func (tp *testPhy) lock() {
	tp.bus.Set(GRF_DPHY0_STATUS, DPHY_PHYLOCK)
}

func (tp *testPhy) logged(level zapcore.Level, msg string) bool {
	for _, e := range tp.logs.All() {
		if e.Level == level && strings.Contains(e.Message, msg) {
			return true
		}
	}
	return false
}

var powerOnPrefix = regmap.Op{
	Kind: regmap.OpUpdate,
	Reg:  COMBTXPHY_CON0,
	Mask: SW_TX_IDLE_MASK | SW_TX_PD_MASK | SW_PD_PLL,
	Val:  SW_TX_IDLE_ALL | SW_TX_PD_ALL | SW_PD_PLL,
}

func refclkOp(sel uint32) regmap.Op {
	return regmap.Op{Kind: regmap.OpUpdate, Reg: GRF_POST_PROC_CON, Mask: SW_TXPHY_REFCLK_SEL_MASK, Val: SW_TXPHY_REFCLK_SEL(sel)}
}

var lockPoll = regmap.Op{Kind: regmap.OpPoll, Reg: GRF_DPHY0_STATUS}

func TestMIPIPowerOn(t *testing.T) {
	tp := newTestPhy(t)
	tp.lock()
	actual, err := tp.SetMode(ModeMIPI, encode(t, ModeMIPI, 500, ModuleA))
	if err != nil {
		t.Fatal(err)
	}
	if actual != 500 {
		t.Errorf("SetMode returned %d, expected 500", actual)
	}
	if tp.State() != StateConfigured {
		t.Errorf("state %v, expected %v", tp.State(), StateConfigured)
	}
	start := tp.clk.Now()
	if err := tp.PowerOn(context.Background()); err != nil {
		t.Fatalf("PowerOn: %v", err)
	}
	expected := []regmap.Op{
		powerOnPrefix,
		refclkOp(TXPHY_REFCLK_MIPI),
		{Kind: regmap.OpUpdate, Reg: COMBTXPHY_CON0, Mask: SW_MODE_SELECT_MASK, Val: SW_BUS_WIDTH_8BIT | SW_MIPI_DSI_EN},
		{Kind: regmap.OpUpdate, Reg: COMBTXPHY_CON0, Mask: SW_MODULEA_EN, Val: SW_MODULEA_EN},
		{Kind: regmap.OpWrite, Reg: COMBTXPHY_CON5, Val: 0x010029ab},
		{Kind: regmap.OpUpdate, Reg: COMBTXPHY_CON0, Mask: SW_PD_PLL, Val: 0},
		lockPoll,
		{Kind: regmap.OpUpdate, Reg: COMBTXPHY_CON9, Mask: SW_DSI_FSET_EN | SW_DSI_RCAL_EN, Val: SW_DSI_FSET_EN | SW_DSI_RCAL_EN},
	}
	if d := cmp.Diff(expected, tp.bus.Ops()); d != "" {
		t.Errorf("register sequence mismatch (-expected +got):\n%s", d)
	}
	if v := tp.bus.Get(COMBTXPHY_CON0); v != 0x3ff3ff45 {
		t.Errorf("CON0 = %#08x, expected 0x3ff3ff45", v)
	}
	if d := cmp.Diff([]string{"pclk on", "assert", "deassert"}, tp.host.calls); d != "" {
		t.Errorf("host calls mismatch (-expected +got):\n%s", d)
	}
	if el := tp.clk.Now().Sub(start); el != 220*time.Microsecond {
		t.Errorf("PowerOn took %v, expected 220µs", el)
	}
	if tp.State() != StatePowered {
		t.Errorf("state %v, expected %v", tp.State(), StatePowered)
	}
}

func TestLVDSPowerOn(t *testing.T) {
	tp := newTestPhy(t)
	tp.lock()
	width := encode(t, ModeLVDS, 75, ModuleA|ModuleB)
	actual, err := tp.SetMode(ModeLVDS, width)
	if err != nil {
		t.Fatal(err)
	}
	if actual != width {
		t.Errorf("SetMode returned %#x, expected the width %#x unchanged", actual, width)
	}
	if err := tp.PowerOn(context.Background()); err != nil {
		t.Fatalf("PowerOn: %v", err)
	}
	expected := []regmap.Op{
		powerOnPrefix,
		refclkOp(TXPHY_REFCLK_LVDS),
		{Kind: regmap.OpUpdate, Reg: COMBTXPHY_CON7, Mask: SW_TX_MODE_MASK, Val: SW_TX_MODE(3)},
		{Kind: regmap.OpWrite, Reg: COMBTXPHY_CON10, Val: 0x84},
		{Kind: regmap.OpUpdate, Reg: COMBTXPHY_CON0, Mask: SW_MODE_SELECT_MASK, Val: SW_BUS_WIDTH_7BIT | SW_GVI_LVDS_EN},
		{Kind: regmap.OpUpdate, Reg: COMBTXPHY_CON0, Mask: SW_MODULEA_EN, Val: SW_MODULEA_EN},
		{Kind: regmap.OpUpdate, Reg: COMBTXPHY_CON0, Mask: SW_MODULEB_EN, Val: SW_MODULEB_EN},
		{Kind: regmap.OpWrite, Reg: COMBTXPHY_CON5, Val: 0x01003800},
		{Kind: regmap.OpUpdate, Reg: COMBTXPHY_CON0, Mask: SW_PD_PLL | SW_TX_PD_MASK, Val: 0},
		lockPoll,
		{Kind: regmap.OpUpdate, Reg: COMBTXPHY_CON0, Mask: SW_TX_IDLE_MASK, Val: 0},
	}
	if d := cmp.Diff(expected, tp.bus.Ops()); d != "" {
		t.Errorf("register sequence mismatch (-expected +got):\n%s", d)
	}
	if v := tp.bus.Get(COMBTXPHY_CON7) & SW_TX_MODE_MASK; v != SW_TX_MODE(3) {
		t.Errorf("CON7 tx mode = %#x, expected %#x", v, SW_TX_MODE(3))
	}
	if v := tp.bus.Get(COMBTXPHY_CON10); v != TXn_CKDRV_EN(7)|TXn_CKDRV_EN(2) {
		t.Errorf("CON10 = %#x, expected only lanes 7 and 2", v)
	}
	if v := tp.bus.Get(COMBTXPHY_CON0); v != 0x6b {
		t.Errorf("CON0 = %#08x, expected 0x0000006b", v)
	}
	if v := testutil.ToFloat64(rateMHz.WithLabelValues("lvds")); v != 75 {
		t.Errorf("rate_mhz{lvds} = %v, expected the 75 MHz pixel clock", v)
	}
}

func TestGVIPowerOn(t *testing.T) {
	tp := newTestPhy(t)
	tp.lock()
	if _, err := tp.SetMode(ModeGVI, encode(t, ModeGVI, 3000, 0)); err != nil {
		t.Fatal(err)
	}
	if f := tp.Flags(); f != ModuleA|ModuleB {
		t.Errorf("flags %#x, expected both modules", f)
	}
	if err := tp.PowerOn(context.Background()); err != nil {
		t.Fatalf("PowerOn: %v", err)
	}
	expected := []regmap.Op{
		powerOnPrefix,
		refclkOp(TXPHY_REFCLK_GVI),
		{Kind: regmap.OpWrite, Reg: COMBTXPHY_CON5, Val: 0x00003e80},
		{
			Kind: regmap.OpUpdate, Reg: COMBTXPHY_CON0,
			Mask: SW_MODE_SELECT_MASK | SW_MODULEB_EN | SW_MODULEA_EN,
			Val:  SW_BUS_WIDTH_10BIT | SW_GVI_LVDS_EN | SW_MODULEB_EN | SW_MODULEA_EN,
		},
		{Kind: regmap.OpUpdate, Reg: COMBTXPHY_CON0, Mask: SW_PD_PLL | SW_TX_PD_MASK, Val: 0},
		lockPoll,
		{Kind: regmap.OpUpdate, Reg: COMBTXPHY_CON0, Mask: SW_TX_IDLE_MASK, Val: 0},
	}
	if d := cmp.Diff(expected, tp.bus.Ops()); d != "" {
		t.Errorf("register sequence mismatch (-expected +got):\n%s", d)
	}
}

func TestMIPINotLocked(t *testing.T) {
	tp := newTestPhy(t)
	if _, err := tp.SetMode(ModeMIPI, encode(t, ModeMIPI, 1000, ModuleA)); err != nil {
		t.Fatal(err)
	}
	failures := testutil.ToFloat64(pllLockFailures.WithLabelValues("mipi"))
	start := tp.clk.Now()
	err := tp.PowerOn(context.Background())
	if !errors.Is(err, ErrNotLocked) || !errors.Is(err, regmap.ErrTimeout) {
		t.Fatalf("PowerOn: got %v, expected %v", err, ErrNotLocked)
	}
	if el := tp.clk.Now().Sub(start); el < 20*time.Microsecond+DefaultLockTimeout {
		t.Errorf("PowerOn gave up after %v", el)
	}
	for _, op := range tp.bus.Ops() {
		if op.Reg == COMBTXPHY_CON9 {
			t.Errorf("calibration enabled without lock: %v", op)
		}
	}
	if tp.State() != StateOff {
		t.Errorf("state %v, expected %v", tp.State(), StateOff)
	}
	if !tp.logged(zapcore.ErrorLevel, "phy is not locked") {
		t.Errorf("lock failure not logged at error level")
	}
	if got := testutil.ToFloat64(pllLockFailures.WithLabelValues("mipi")); got != failures+1 {
		t.Errorf("pll_lock_failures_total = %v, expected %v", got, failures+1)
	}
}

func TestLVDSNotLocked(t *testing.T) {
	tp := newTestPhy(t)
	if _, err := tp.SetMode(ModeLVDS, encode(t, ModeLVDS, 75, ModuleA)); err != nil {
		t.Fatal(err)
	}
	if err := tp.PowerOn(context.Background()); !errors.Is(err, ErrNotLocked) {
		t.Fatalf("PowerOn: got %v, expected %v", err, ErrNotLocked)
	}
	ops := tp.bus.Ops()
	if last := ops[len(ops)-1]; last != lockPoll {
		t.Errorf("last access %v, expected the lock poll", last)
	}
	if v := tp.bus.Get(COMBTXPHY_CON0) & SW_TX_IDLE_MASK; v != SW_TX_IDLE_ALL {
		t.Errorf("TX idle released without lock: CON0 idle bits %#x", v)
	}
	if !tp.logged(zapcore.InfoLevel, "phy is not locked") {
		t.Errorf("lock failure not logged at info level")
	}
}

func TestGVIContinuesWithoutLock(t *testing.T) {
	tp := newTestPhy(t)
	if _, err := tp.SetMode(ModeGVI, encode(t, ModeGVI, 1500, 0)); err != nil {
		t.Fatal(err)
	}
	if err := tp.PowerOn(context.Background()); err != nil {
		t.Fatalf("PowerOn: %v", err)
	}
	if tp.State() != StatePowered {
		t.Errorf("state %v, expected %v", tp.State(), StatePowered)
	}
	if v := tp.bus.Get(COMBTXPHY_CON0) & SW_TX_IDLE_MASK; v != 0 {
		t.Errorf("TX idle not released: CON0 idle bits %#x", v)
	}
	if !tp.logged(zapcore.WarnLevel, "phy is not locked") {
		t.Errorf("lock failure not logged at warn level")
	}
}

func TestPowerOnCancelled(t *testing.T) {
	tp := newTestPhy(t)
	if _, err := tp.SetMode(ModeGVI, encode(t, ModeGVI, 1500, 0)); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := tp.PowerOn(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("PowerOn: got %v, expected %v", err, context.Canceled)
	}
}

func TestPowerOnBusError(t *testing.T) {
	tp := newTestPhy(t)
	tp.lock()
	if _, err := tp.SetMode(ModeMIPI, encode(t, ModeMIPI, 500, ModuleA)); err != nil {
		t.Fatal(err)
	}
	bad := errors.New("i2c nack")
	tp.bus.Fail(COMBTXPHY_CON5, bad)
	if err := tp.PowerOn(context.Background()); !errors.Is(err, bad) {
		t.Fatalf("PowerOn: got %v, expected %v", err, bad)
	}
	ops := tp.bus.Ops()
	if last := ops[len(ops)-1]; last.Reg != COMBTXPHY_CON5 {
		t.Errorf("sequence continued after the failed write: %v", ops)
	}
}

func TestDSISettleSkippedOnError(t *testing.T) {
	tp := newTestPhy(t)
	tp.lock()
	if _, err := tp.SetMode(ModeMIPI, encode(t, ModeMIPI, 500, ModuleA)); err != nil {
		t.Fatal(err)
	}
	bad := errors.New("i2c nack")
	tp.bus.Fail(COMBTXPHY_CON9, bad)
	start := tp.clk.Now()
	if err := tp.PowerOn(context.Background()); !errors.Is(err, bad) {
		t.Fatalf("PowerOn: got %v, expected %v", err, bad)
	}
	if el := tp.clk.Now().Sub(start); el >= dsiSettle {
		t.Errorf("PowerOn took %v after a failed CON9 update, expected less than %v", el, dsiSettle)
	}
	if tp.State() != StateOff {
		t.Errorf("state %v, expected %v", tp.State(), StateOff)
	}
}

func TestSetModeOutOfRange(t *testing.T) {
	tp := newTestPhy(t)
	if _, err := tp.SetMode(ModeMIPI, encode(t, ModeMIPI, 500, ModuleA)); err != nil {
		t.Fatal(err)
	}
	params := tp.Params()
	for _, tc := range []struct {
		mode  Mode
		width int
	}{
		{ModeMIPI, encode(t, ModeMIPI, 79, ModuleA)},
		{ModeMIPI, encode(t, ModeMIPI, 1501, ModuleB)},
		{ModeGVI, encode(t, ModeGVI, 499, 0)},
		{ModeGVI, encode(t, ModeGVI, 4001, 0)},
		// 5000 would alias to 904 if truncated to 12 bits.
		{ModeGVI, 5000},
		{ModeGVI, -1},
	} {
		if _, err := tp.SetMode(tc.mode, tc.width); !errors.Is(err, ErrInvalidRate) {
			t.Errorf("SetMode(%v, %#x): got %v, expected %v", tc.mode, tc.width, err, ErrInvalidRate)
		}
		if tp.Mode() != ModeMIPI || tp.Flags() != ModuleA || tp.Params() != params {
			t.Errorf("SetMode(%v, %#x) changed the configuration", tc.mode, tc.width)
		}
	}
	if ops := tp.bus.Ops(); len(ops) != 0 {
		t.Errorf("SetMode touched registers: %v", ops)
	}
}

func TestInvalidMode(t *testing.T) {
	tp := newTestPhy(t)
	if _, err := tp.SetMode(Mode(9), 0); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("SetMode: got %v, expected %v", err, ErrInvalidMode)
	}
	if err := tp.PowerOn(context.Background()); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("PowerOn: got %v, expected %v", err, ErrInvalidMode)
	}
	if ops := tp.bus.Ops(); len(ops) != 0 {
		t.Errorf("registers touched: %v", ops)
	}
	if len(tp.host.calls) != 0 {
		t.Errorf("host touched: %v", tp.host.calls)
	}
	if tp.State() != StateUninitialized {
		t.Errorf("state %v, expected %v", tp.State(), StateUninitialized)
	}
}

func TestSetModeWhilePowered(t *testing.T) {
	tp := newTestPhy(t)
	tp.lock()
	if _, err := tp.SetMode(ModeMIPI, encode(t, ModeMIPI, 500, ModuleA)); err != nil {
		t.Fatal(err)
	}
	if err := tp.PowerOn(context.Background()); err != nil {
		t.Fatal(err)
	}
	tp.bus.Ops()
	actual, err := tp.SetMode(ModeMIPI, encode(t, ModeMIPI, 1200, ModuleB))
	if err != nil {
		t.Fatal(err)
	}
	if tp.State() != StatePowered {
		t.Errorf("state %v, expected %v", tp.State(), StatePowered)
	}
	if got := testutil.ToFloat64(rateMHz.WithLabelValues("mipi")); got != float64(actual) {
		t.Errorf("rate_mhz = %v, expected %d", got, actual)
	}
	if ops := tp.bus.Ops(); len(ops) != 0 {
		t.Errorf("SetMode touched registers: %v", ops)
	}
}

func TestPowerOff(t *testing.T) {
	tp := newTestPhy(t)
	tp.lock()
	if _, err := tp.SetMode(ModeLVDS, encode(t, ModeLVDS, 75, ModuleA|ModuleB)); err != nil {
		t.Fatal(err)
	}
	before := testutil.ToFloat64(powerOnTotal.WithLabelValues("lvds"))
	if err := tp.PowerOn(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ToFloat64(powerOnTotal.WithLabelValues("lvds")); got != before+1 {
		t.Errorf("power_on_total = %v, expected %v", got, before+1)
	}
	tp.bus.Ops()
	tp.host.calls = nil

	if err := tp.PowerOff(); err != nil {
		t.Fatalf("PowerOff: %v", err)
	}
	off := regmap.Op{
		Kind: regmap.OpUpdate,
		Reg:  COMBTXPHY_CON0,
		Mask: SW_TX_IDLE_MASK | SW_TX_PD_MASK | SW_PD_PLL | SW_MODULEB_EN | SW_MODULEA_EN,
		Val:  SW_TX_IDLE_ALL | SW_TX_PD_ALL | SW_PD_PLL,
	}
	if d := cmp.Diff([]regmap.Op{off}, tp.bus.Ops()); d != "" {
		t.Errorf("register sequence mismatch (-expected +got):\n%s", d)
	}
	if v := tp.bus.Get(COMBTXPHY_CON0); v != 0x3ff3ff78 {
		t.Errorf("CON0 = %#08x, expected 0x3ff3ff78", v)
	}
	first := tp.bus.Snapshot()

	if err := tp.PowerOff(); err != nil {
		t.Fatalf("second PowerOff: %v", err)
	}
	if d := cmp.Diff(first, tp.bus.Snapshot()); d != "" {
		t.Errorf("second PowerOff changed registers (-first +second):\n%s", d)
	}
	if d := cmp.Diff([]string{"pclk off", "pclk off"}, tp.host.calls); d != "" {
		t.Errorf("host calls mismatch (-expected +got):\n%s", d)
	}
	if tp.State() != StateOff {
		t.Errorf("state %v, expected %v", tp.State(), StateOff)
	}
}

func TestPowerOffWithoutPowerOn(t *testing.T) {
	tp := newTestPhy(t)
	if err := tp.PowerOff(); err != nil {
		t.Fatalf("PowerOff: %v", err)
	}
	if tp.State() != StateOff {
		t.Errorf("state %v, expected %v", tp.State(), StateOff)
	}
}

func TestPowerOffErrors(t *testing.T) {
	tp := newTestPhy(t)
	busErr := errors.New("i2c nack")
	clkErr := errors.New("gate stuck")
	tp.bus.Fail(COMBTXPHY_CON0, busErr)
	tp.host.disableErr = clkErr

	err := tp.PowerOff()
	if !errors.Is(err, busErr) || !errors.Is(err, clkErr) {
		t.Errorf("PowerOff: got %v, expected both %v and %v", err, busErr, clkErr)
	}
	if n := len(multierr.Errors(err)); n != 2 {
		t.Errorf("PowerOff returned %d errors, expected 2", n)
	}
	if d := cmp.Diff([]string{"pclk off"}, tp.host.calls); d != "" {
		t.Errorf("clock not stopped after register failure (-expected +got):\n%s", d)
	}
	if tp.State() != StateOff {
		t.Errorf("state %v, expected %v", tp.State(), StateOff)
	}
}

func TestParseMode(t *testing.T) {
	for _, tc := range []struct {
		in   string
		mode Mode
	}{
		{"mipi", ModeMIPI}, {"DSI", ModeMIPI}, {"lvds", ModeLVDS}, {"GVI", ModeGVI},
	} {
		m, err := ParseMode(tc.in)
		if err != nil {
			t.Errorf("ParseMode(%q): %v", tc.in, err)
		} else if m != tc.mode {
			t.Errorf("ParseMode(%q) = %v, expected %v", tc.in, m, tc.mode)
		}
	}
	if _, err := ParseMode("hdmi"); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("ParseMode(hdmi): got %v, expected %v", err, ErrInvalidMode)
	}
}

func TestDump(t *testing.T) {
	clk := clock.NewFake()
	regs := regmap.NewFake(Config, clk)
	regs.Set(COMBTXPHY_CON5, 0x010029ab)
	p := New(Device{Regs: regs, GRF: regmap.NewFake(GRFConfig, clk)}, WithClock(clk), WithLogger(zap.NewNop().Sugar()))

	var b bytes.Buffer
	if err := p.Dump(&b); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	if len(lines) != 11 {
		t.Fatalf("Dump printed %d lines, expected 11:\n%s", len(lines), b.String())
	}
	if l := lines[5]; !strings.Contains(l, "CON5:") || !strings.Contains(l, "PLL Divider Register") || !strings.HasSuffix(l, "010029ab") {
		t.Errorf("unexpected CON5 line %q", l)
	}
	if RegisterName(COMBTXPHY_CON10) != "TX Clock Driver Enable Register" {
		t.Errorf("RegisterName(CON10) = %q", RegisterName(COMBTXPHY_CON10))
	}
	if RegisterName(0x90100) != "" {
		t.Errorf("RegisterName returned a name for an unknown register")
	}
}

func TestLocked(t *testing.T) {
	tp := newTestPhy(t)
	if _, err := tp.SetMode(ModeGVI, encode(t, ModeGVI, 3000, 0)); err != nil {
		t.Fatal(err)
	}
	locked, err := tp.Locked()
	if err != nil || locked {
		t.Errorf("Locked() = %v, %v before lock", locked, err)
	}
	if v := testutil.ToFloat64(pllLocked.WithLabelValues("gvi")); v != 0 {
		t.Errorf("pll_locked = %v, expected 0", v)
	}
	tp.lock()
	locked, err = tp.Locked()
	if err != nil || !locked {
		t.Errorf("Locked() = %v, %v after lock", locked, err)
	}
	if v := testutil.ToFloat64(pllLocked.WithLabelValues("gvi")); v != 1 {
		t.Errorf("pll_locked = %v, expected 1", v)
	}
}
