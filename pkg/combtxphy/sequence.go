// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package combtxphy

import (
	"context"
	"errors"
	"fmt"

	"github.com/u-root/rk628/pkg/regmap"
)

// seqWriter stops issuing accesses after the first error.
type seqWriter struct {
	m   regmap.Map
	err error
}

func (w *seqWriter) write(reg, val uint32) {
	if w.err == nil {
		w.err = w.m.Write(reg, val)
	}
}

func (w *seqWriter) update(reg, mask, val uint32) {
	if w.err == nil {
		w.err = w.m.UpdateBits(reg, mask, val)
	}
}

// enableModules turns on the modules selected by flags.
func (p *Phy) enableModules(w *seqWriter) {
	if p.flags&ModuleA != 0 {
		w.update(COMBTXPHY_CON0, SW_MODULEA_EN, SW_MODULEA_EN)
	}
	if p.flags&ModuleB != 0 {
		w.update(COMBTXPHY_CON0, SW_MODULEB_EN, SW_MODULEB_EN)
	}
}

// waitLock polls the GRF until the PLL reports lock.
func (p *Phy) waitLock(ctx context.Context) error {
	start := p.clk.Now()
	_, err := p.grf.PollUntil(ctx, GRF_DPHY0_STATUS, func(v uint32) bool {
		return v&DPHY_PHYLOCK != 0
	}, p.lockTimeout)
	lockWaitSeconds.WithLabelValues(p.mode.String()).Observe(p.clk.Now().Sub(start).Seconds())
	if err == nil {
		return nil
	}
	if errors.Is(err, regmap.ErrTimeout) {
		pllLockFailures.WithLabelValues(p.mode.String()).Inc()
		return fmt.Errorf("%w: %w", ErrNotLocked, err)
	}
	return err
}

func (p *Phy) dsiPowerOn(ctx context.Context) error {
	w := &seqWriter{m: p.regs}
	w.update(COMBTXPHY_CON0, SW_MODE_SELECT_MASK, SW_BUS_WIDTH_8BIT|SW_MIPI_DSI_EN)
	p.enableModules(w)
	w.write(COMBTXPHY_CON5, p.params.con5())
	w.update(COMBTXPHY_CON0, SW_PD_PLL, 0)
	if w.err != nil {
		return w.err
	}

	if err := p.waitLock(ctx); err != nil {
		p.log.Errorf("phy is not locked: %v", err)
		return err
	}

	w.update(COMBTXPHY_CON9, SW_DSI_FSET_EN|SW_DSI_RCAL_EN, SW_DSI_FSET_EN|SW_DSI_RCAL_EN)
	if w.err != nil {
		return w.err
	}
	p.clk.Sleep(dsiSettle)
	return nil
}

func (p *Phy) lvdsPowerOn(ctx context.Context) error {
	w := &seqWriter{m: p.regs}
	w.update(COMBTXPHY_CON7, SW_TX_MODE_MASK, SW_TX_MODE(3))
	// Only lanes 7 and 2 carry the LVDS clock.
	w.write(COMBTXPHY_CON10, TXn_CKDRV_EN(7)|TXn_CKDRV_EN(2))
	w.update(COMBTXPHY_CON0, SW_MODE_SELECT_MASK, SW_BUS_WIDTH_7BIT|SW_GVI_LVDS_EN)
	p.enableModules(w)
	w.write(COMBTXPHY_CON5, p.params.con5())
	w.update(COMBTXPHY_CON0, SW_PD_PLL|SW_TX_PD_MASK, 0)
	if w.err != nil {
		return w.err
	}

	if err := p.waitLock(ctx); err != nil {
		p.log.Infof("phy is not locked: %v", err)
		return err
	}

	p.clk.Sleep(txIdleSettle)
	w.update(COMBTXPHY_CON0, SW_TX_IDLE_MASK, 0)
	return w.err
}

// gviPowerOn always drives both modules. A PLL that fails to lock is
// reported but does not stop the sequence.
// TODO(rk628): confirm with the hardware team whether GVI should abort on a
// lock timeout like MIPI and LVDS do.
func (p *Phy) gviPowerOn(ctx context.Context) error {
	w := &seqWriter{m: p.regs}
	w.write(COMBTXPHY_CON5, p.params.con5())
	w.update(COMBTXPHY_CON0,
		SW_MODE_SELECT_MASK|SW_MODULEB_EN|SW_MODULEA_EN,
		SW_BUS_WIDTH_10BIT|SW_GVI_LVDS_EN|SW_MODULEB_EN|SW_MODULEA_EN)
	w.update(COMBTXPHY_CON0, SW_PD_PLL|SW_TX_PD_MASK, 0)
	if w.err != nil {
		return w.err
	}

	if err := p.waitLock(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		p.log.Warnf("phy is not locked, continuing: %v", err)
	}

	p.clk.Sleep(txIdleSettle)
	w.update(COMBTXPHY_CON0, SW_TX_IDLE_MASK, 0)
	return w.err
}
