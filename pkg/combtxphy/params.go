// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package combtxphy

import (
	"fmt"
)

const (
	// Reference clock into the PLL, in MHz.
	fin = 24
	// The VCO runs at 8x the feedback divided reference.
	vcoPreMul = 8
	// Fractional divider resolution.
	fracScale = 1024

	mipiMinMHz = 80
	mipiMaxMHz = 1500
	gviMinMHz  = 500
	gviMaxMHz  = 4000

	lvdsFbDiv = 14

	// Width field limits: GVI uses the low 12 bits, MIPI and LVDS shift
	// the rate above an 8 bit flags byte.
	gviWidthMask  = 0xfff
	maxShiftedMHz = 1<<23 - 1
)

// Params holds the PLL divider settings.
type Params struct {
	RefDiv  uint8
	FbDiv   uint8
	FracDiv uint16
	RateDiv uint8
}

// Validate checks that p fits the CON5 register fields.
func (p Params) Validate() error {
	if p.RefDiv < 1 || p.RefDiv > 32 {
		return fmt.Errorf("ref_div %d out of range", p.RefDiv)
	}
	if p.FbDiv > 31 {
		return fmt.Errorf("fb_div %d out of range", p.FbDiv)
	}
	if p.FracDiv >= fracScale {
		return fmt.Errorf("frac_div %d out of range", p.FracDiv)
	}
	switch p.RateDiv {
	case 1, 2, 4:
	default:
		return fmt.Errorf("rate_div %d not one of 1, 2, 4", p.RateDiv)
	}
	return nil
}

// con5 packs p into the COMBTXPHY_CON5 layout. The rate field holds
// log2(rate_div).
func (p Params) con5() uint32 {
	return SW_REF_DIV(uint32(p.RefDiv)-1) |
		SW_PLL_FB_DIV(uint32(p.FbDiv)) |
		SW_PLL_FRAC_DIV(uint32(p.FracDiv)) |
		SW_RATE(uint32(p.RateDiv)/2)
}

func (p Params) String() string {
	return fmt.Sprintf("ref_div=%d fb_div=%d frac_div=%d rate_div=%d", p.RefDiv, p.FbDiv, p.FracDiv, p.RateDiv)
}

func rateDiv(f, lo, hi uint32) uint8 {
	switch {
	case f < lo:
		return 4
	case f < hi:
		return 2
	}
	return 1
}

// pllDividers splits fvco (MHz) into integer and fractional feedback
// dividers with ref_div fixed at 1.
func pllDividers(fvco uint32, rate uint8) Params {
	p := Params{RefDiv: 1, RateDiv: rate}
	p.FbDiv = uint8(fvco / vcoPreMul / fin)
	fracRate := fvco - fin*vcoPreMul*uint32(p.FbDiv)
	if fracRate != 0 {
		// Round to the nearest 1/1024.
		p.FracDiv = uint16((fracRate*fracScale + fin*vcoPreMul/2) / (fin * vcoPreMul))
	}
	return p
}

// vcoScaled returns fin * (1024*fb_div + frac_div) * 8, the VCO frequency
// times 1024*ref_div.
func (p Params) vcoScaled() uint32 {
	return fin * (fracScale*uint32(p.FbDiv) + uint32(p.FracDiv)) * vcoPreMul
}

// MIPIParams computes the dividers for a MIPI-DSI high speed clock of fhsc
// MHz and returns the clock they actually produce.
func MIPIParams(fhsc uint32) (Params, uint32, error) {
	if fhsc < mipiMinMHz || fhsc > mipiMaxMHz {
		return Params{}, 0, fmt.Errorf("%w: mipi %d MHz not in [%d, %d]", ErrInvalidRate, fhsc, mipiMinMHz, mipiMaxMHz)
	}
	rate := rateDiv(fhsc, 375, 750)
	p := pllDividers(fhsc*2*uint32(rate), rate)
	d := fracScale * uint32(p.RefDiv)
	fvco := (p.vcoScaled() + d - 1) / d
	return p, fvco / 2 / uint32(rate), nil
}

// LVDSParams computes the dividers for an LVDS pixel clock of width MHz.
// The feedback divider is fixed; only the output divider depends on the
// serial rate of 7 bits per pixel clock.
func LVDSParams(width uint32) Params {
	return Params{
		RefDiv:  1,
		FbDiv:   lvdsFbDiv,
		RateDiv: rateDiv(width*7, 500, 1000),
	}
}

// GVIParams computes the dividers for a GVI lane rate of fhsc MHz and
// returns the rate they actually produce.
func GVIParams(fhsc uint32) (Params, uint32, error) {
	if fhsc < gviMinMHz || fhsc > gviMaxMHz {
		return Params{}, 0, fmt.Errorf("%w: gvi %d MHz not in [%d, %d]", ErrInvalidRate, fhsc, gviMinMHz, gviMaxMHz)
	}
	rate := rateDiv(fhsc, 1000, 2000)
	p := pllDividers(fhsc*uint32(rate), rate)
	fvco := p.vcoScaled() / (fracScale * uint32(p.RefDiv))
	return p, fvco / uint32(rate), nil
}

// EncodeWidth builds the composite bus width parameter taken by SetMode.
// MIPI and LVDS carry the rate in the upper bits and the module enable
// flags in the low byte. GVI carries only the rate in the low 12 bits.
// A rate that does not fit its field is rejected with ErrInvalidRate.
func EncodeWidth(mode Mode, rateMHz uint32, flags Flags) (int, error) {
	if mode == ModeGVI {
		if rateMHz > gviWidthMask {
			return 0, fmt.Errorf("%w: gvi %d MHz does not fit in 12 bits", ErrInvalidRate, rateMHz)
		}
		return int(rateMHz), nil
	}
	if rateMHz > maxShiftedMHz {
		return 0, fmt.Errorf("%w: %v %d MHz does not fit in 23 bits", ErrInvalidRate, mode, rateMHz)
	}
	return int(rateMHz<<8 | uint32(flags)), nil
}
