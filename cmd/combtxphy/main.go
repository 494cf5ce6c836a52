// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// combtxphy configures and powers the combo transmit PHY of an RK628
// bridge attached over I2C.
//
// Without -metrics the PHY is left running and the command exits. With
// -metrics the command serves Prometheus metrics until interrupted and
// powers the PHY off on the way out.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/jmhodges/clock"
	"github.com/spf13/afero"
	"github.com/u-root/rk628/config"
	"github.com/u-root/rk628/pkg/combtxphy"
	"github.com/u-root/rk628/pkg/cru"
	"github.com/u-root/rk628/pkg/logger"
	"github.com/u-root/rk628/pkg/metric"
	"github.com/u-root/rk628/pkg/regmap"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

var (
	configFile = flag.String("config", "", "JSON configuration file")
	bus        = flag.String("bus", "", "I2C bus name, empty for the first bus")
	addr       = flag.Uint("addr", uint(regmap.DefaultAddress), "I2C address of the RK628")
	mode       = flag.String("mode", "", "PHY mode: mipi, lvds or gvi")
	rate       physic.Frequency
	flags      = flag.Uint("flags", 0, "Module enables: 1 for module A, 2 for module B")
	lockWait   = flag.Duration("lock-timeout", 0, "How long to wait for the PLL to lock")
	off        = flag.Bool("off", false, "Power the PHY off and exit")
	dump       = flag.Bool("dump", false, "Dump the PHY registers after power on")
	metrics    = flag.String("metrics", "", "Serve Prometheus metrics on this address")
	logLevel   = flag.String("log-level", "", "Console log level")
	logFile    = flag.String("log-file", "", "Also log as JSON to this file")
)

const lockCheckInterval = 5 * time.Second

func init() {
	flag.Var(&rate, "rate", "MIPI HS clock, LVDS pixel clock or GVI lane rate, e.g. 500MHz")
}

func loadConfig() (*config.Config, error) {
	c := *config.DefaultConfig
	if *configFile != "" {
		l, err := config.Load(afero.NewOsFs(), *configFile)
		if err != nil {
			return nil, err
		}
		c = *l
	}

	// Flags given on the command line win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bus":
			c.I2C.Bus = *bus
		case "addr":
			c.I2C.Addr = uint16(*addr)
		case "mode":
			c.Phy.Mode = *mode
		case "rate":
			c.Phy.RateMHz = uint32(rate / physic.MegaHertz)
		case "flags":
			c.Phy.Flags = uint8(*flags)
		case "lock-timeout":
			c.Phy.LockTimeout = config.Duration(*lockWait)
		case "metrics":
			c.MetricsAddress = *metrics
		case "log-level":
			c.LogLevel = *logLevel
		case "log-file":
			c.LogFile = *logFile
		}
	})
	return &c, nil
}

func openPhy(c *config.Config, clk clock.Clock, log *zap.SugaredLogger) (*combtxphy.Phy, func() error, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("host init: %w", err)
	}
	b, err := i2creg.Open(c.I2C.Bus)
	if err != nil {
		return nil, nil, fmt.Errorf("open i2c bus %q: %w", c.I2C.Bus, err)
	}

	regs := regmap.NewI2C(b, c.I2C.Addr, combtxphy.Config, clk)
	grf := regs.NewI2CWindow(combtxphy.GRFConfig)
	cruMap := regs.NewI2CWindow(cru.Config)

	gate, err := cru.NewGate(cruMap, c.CRU.PclkGateReg, c.CRU.PclkGateBit)
	if err != nil {
		b.Close()
		return nil, nil, err
	}
	id, err := cru.ParseResetID(c.CRU.Reset)
	if err != nil {
		b.Close()
		return nil, nil, err
	}
	rst, err := cru.NewReset(cruMap, id)
	if err != nil {
		b.Close()
		return nil, nil, err
	}
	log.Debugf("using %v, %v and %v on %s", regs, grf, rst, b)

	p := combtxphy.New(combtxphy.Device{Regs: regs, GRF: grf, Pclk: gate, Reset: rst},
		combtxphy.WithClock(clk),
		combtxphy.WithLogger(log),
		combtxphy.WithLockTimeout(time.Duration(c.Phy.LockTimeout)))
	return p, b.Close, nil
}

// lockWatcher logs every change of the PLL lock state.
type lockWatcher struct {
	clk      clock.Clock
	log      *zap.SugaredLogger
	locked   func() (bool, error)
	interval time.Duration
	was      bool
}

func newLockWatcher(clk clock.Clock, p *combtxphy.Phy, log *zap.SugaredLogger) *lockWatcher {
	// The PHY has just been powered on, so it starts out locked.
	return &lockWatcher{clk: clk, log: log, locked: p.Locked, interval: lockCheckInterval, was: true}
}

func (w *lockWatcher) check() {
	locked, err := w.locked()
	if err != nil {
		w.log.Warnf("reading lock status: %v", err)
		return
	}
	if locked == w.was {
		return
	}
	if locked {
		w.log.Infof("pll locked again")
	} else {
		w.log.Errorf("pll lost lock")
	}
	w.was = locked
}

// run checks the lock state every interval until ctx is done.
func (w *lockWatcher) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.clk.After(w.interval):
		}
		w.check()
	}
}

func run(ctx context.Context, clk clock.Clock, c *config.Config, log *zap.SugaredLogger) (err error) {
	p, closeBus, err := openPhy(c, clk, log)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, closeBus())
	}()

	if *off {
		return p.PowerOff()
	}

	m, err := combtxphy.ParseMode(c.Phy.Mode)
	if err != nil {
		return err
	}
	width, err := combtxphy.EncodeWidth(m, c.Phy.RateMHz, combtxphy.Flags(c.Phy.Flags))
	if err != nil {
		return err
	}
	actual, err := p.SetMode(m, width)
	if err != nil {
		return err
	}
	if m == combtxphy.ModeLVDS {
		log.Infof("%v: %d MHz pixel clock, %v", m, c.Phy.RateMHz, p.Params())
	} else {
		log.Infof("%v: requested %d MHz, achieved %d MHz, %v", m, c.Phy.RateMHz, actual, p.Params())
	}

	if err := p.PowerOn(ctx); err != nil {
		return err
	}
	log.Infof("%v phy powered on", m)

	if *dump {
		if err := p.Dump(os.Stdout); err != nil {
			return err
		}
	}

	if c.MetricsAddress == "" {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return metric.Serve(gctx, c.MetricsAddress)
	})
	g.Go(func() error {
		return newLockWatcher(clk, p, log).run(gctx)
	})
	log.Infof("serving metrics on %s", c.MetricsAddress)
	err = g.Wait()
	log.Infof("shutting down")
	return multierr.Append(err, p.PowerOff())
}

func main() {
	flag.Parse()

	c, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "combtxphy: %v\n", err)
		os.Exit(1)
	}
	if err := logger.LogContainer.Configure(c.LogLevel, c.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "combtxphy: %v\n", err)
		os.Exit(1)
	}
	log := logger.LogContainer.GetSimpleLogger()
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)
	defer stop()

	if err := run(ctx, clock.New(), c, log); err != nil {
		log.Errorf("combtxphy: %v", err)
		log.Sync()
		os.Exit(1)
	}
}
