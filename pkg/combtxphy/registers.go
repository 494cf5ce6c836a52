// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package combtxphy

import (
	"fmt"
	"io"

	"github.com/u-root/rk628/pkg/regmap"
)

// field places v into bits [h:l].
func field(v uint32, h, l uint) uint32 {
	return (v << l) & genmask(h, l)
}

func genmask(h, l uint) uint32 {
	return (^uint32(0) >> (31 - h)) &^ ((uint32(1) << l) - 1)
}

const (
	COMBTXPHY_BASE uint32 = 0x90000

	COMBTXPHY_CON0  = COMBTXPHY_BASE + 0x0000
	COMBTXPHY_CON1  = COMBTXPHY_BASE + 0x0004
	COMBTXPHY_CON2  = COMBTXPHY_BASE + 0x0008
	COMBTXPHY_CON3  = COMBTXPHY_BASE + 0x000c
	COMBTXPHY_CON4  = COMBTXPHY_BASE + 0x0010
	COMBTXPHY_CON5  = COMBTXPHY_BASE + 0x0014
	COMBTXPHY_CON6  = COMBTXPHY_BASE + 0x0018
	COMBTXPHY_CON7  = COMBTXPHY_BASE + 0x001c
	COMBTXPHY_CON8  = COMBTXPHY_BASE + 0x0020
	COMBTXPHY_CON9  = COMBTXPHY_BASE + 0x0024
	COMBTXPHY_CON10 = COMBTXPHY_BASE + 0x0028

	COMBTXPHY_MAX_REGISTER = COMBTXPHY_CON10
)

// COMBTXPHY_CON0
var (
	SW_TX_IDLE_MASK     = genmask(29, 20)
	SW_TX_PD_MASK       = genmask(17, 8)
	SW_BUS_WIDTH_MASK   = genmask(6, 5)
	SW_BUS_WIDTH_7BIT   = field(0x3, 6, 5)
	SW_BUS_WIDTH_8BIT   = field(0x2, 6, 5)
	SW_BUS_WIDTH_9BIT   = field(0x1, 6, 5)
	SW_BUS_WIDTH_10BIT  = field(0x0, 6, 5)
	SW_PD_PLL           = uint32(1 << 4)
	SW_GVI_LVDS_EN      = uint32(1 << 3)
	SW_MIPI_DSI_EN      = uint32(1 << 2)
	SW_MODULEB_EN       = uint32(1 << 1)
	SW_MODULEA_EN       = uint32(1 << 0)
	SW_TX_IDLE_ALL      = field(0x3ff, 29, 20)
	SW_TX_PD_ALL        = field(0x3ff, 17, 8)
	SW_MODE_SELECT_MASK = SW_BUS_WIDTH_MASK | SW_GVI_LVDS_EN | SW_MIPI_DSI_EN
)

// COMBTXPHY_CON5
func SW_RATE(x uint32) uint32         { return field(x, 26, 24) }
func SW_REF_DIV(x uint32) uint32      { return field(x, 20, 16) }
func SW_PLL_FB_DIV(x uint32) uint32   { return field(x, 14, 10) }
func SW_PLL_FRAC_DIV(x uint32) uint32 { return field(x, 9, 0) }

// COMBTXPHY_CON7
var (
	SW_TX_RTERM_MASK    = genmask(22, 20)
	SW_TX_MODE_MASK     = genmask(17, 16)
	SW_TX_CTL_CON5_MASK = uint32(1 << 10)
	SW_TX_CTL_CON4_MASK = genmask(9, 8)
)

func SW_TX_RTERM(x uint32) uint32    { return field(x, 22, 20) }
func SW_TX_MODE(x uint32) uint32     { return field(x, 17, 16) }
func SW_TX_CTL_CON5(x uint32) uint32 { return field(x, 10, 10) }
func SW_TX_CTL_CON4(x uint32) uint32 { return field(x, 9, 8) }

// COMBTXPHY_CON9
const (
	SW_DSI_FSET_EN uint32 = 1 << 29
	SW_DSI_RCAL_EN uint32 = 1 << 28
)

// TXn_CKDRV_EN returns the clock driver enable bit of TX lane n in
// COMBTXPHY_CON10.
func TXn_CKDRV_EN(n uint) uint32 {
	return 1 << n
}

// General register file, shared with the rest of the chip.
const (
	GRF_BASE          uint32 = 0x00000
	GRF_POST_PROC_CON uint32 = GRF_BASE + 0x0010
	GRF_DPHY0_STATUS  uint32 = GRF_BASE + 0x0460
	GRF_MAX_REGISTER  uint32 = GRF_BASE + 0x0500
	DPHY_PHYLOCK      uint32 = 1 << 3

	TXPHY_REFCLK_MIPI uint32 = 0
	TXPHY_REFCLK_LVDS uint32 = 1
	TXPHY_REFCLK_GVI  uint32 = 0

	refclkSelHigh uint = 10
	refclkSelLow  uint = 9
)

var SW_TXPHY_REFCLK_SEL_MASK = genmask(refclkSelHigh, refclkSelLow)

func SW_TXPHY_REFCLK_SEL(x uint32) uint32 { return field(x, refclkSelHigh, refclkSelLow) }

// Config is the register window of the PHY block.
var Config = regmap.Config{
	Name:        "combtxphy",
	RegStride:   4,
	MaxRegister: COMBTXPHY_MAX_REGISTER,
	Readable:    []regmap.Range{{Min: COMBTXPHY_CON0, Max: COMBTXPHY_CON10}},
}

// GRFConfig is the register window of the general register file.
var GRFConfig = regmap.Config{
	Name:        "grf",
	RegStride:   4,
	MaxRegister: GRF_MAX_REGISTER,
}

var conRegs = []struct {
	reg  uint32
	name string
}{
	{COMBTXPHY_CON0, "Lane Idle / Power Down / Mode Control"},
	{COMBTXPHY_CON1, "Control Register 1"},
	{COMBTXPHY_CON2, "Control Register 2"},
	{COMBTXPHY_CON3, "Control Register 3"},
	{COMBTXPHY_CON4, "Control Register 4"},
	{COMBTXPHY_CON5, "PLL Divider Register"},
	{COMBTXPHY_CON6, "Control Register 6"},
	{COMBTXPHY_CON7, "TX Termination / Mode Register"},
	{COMBTXPHY_CON8, "Control Register 8"},
	{COMBTXPHY_CON9, "DSI Calibration Register"},
	{COMBTXPHY_CON10, "TX Clock Driver Enable Register"},
}

// RegisterName returns the name of a PHY register, or "" if reg is not one.
func RegisterName(reg uint32) string {
	for _, r := range conRegs {
		if r.reg == reg {
			return r.name
		}
	}
	return ""
}

// Dump prints every PHY control register.
func (p *Phy) Dump(w io.Writer) error {
	for i, r := range conRegs {
		v, err := p.regs.Read(r.reg)
		if err != nil {
			return err
		}
		n := fmt.Sprintf("CON%d:", i)
		fmt.Fprintf(w, " %-6s %-38s %08x\n", n, r.name, v)
	}
	return nil
}
