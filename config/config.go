// Copyright 2018 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/afero"
)

// Duration is a time.Duration written as a string such as "1ms" in JSON.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

type I2C struct {
	// Bus is the periph bus name, "" for the first bus found.
	Bus  string
	Addr uint16
}

type Phy struct {
	// Mode is one of mipi, lvds or gvi.
	Mode string
	// RateMHz is the MIPI high speed clock, the LVDS pixel clock or the
	// GVI lane rate.
	RateMHz uint32
	// Flags selects module A (1) and module B (2). Ignored for GVI.
	Flags       uint8
	LockTimeout Duration
}

type CRU struct {
	PclkGateReg uint32
	PclkGateBit uint
	Reset       string
}

type Config struct {
	I2C            I2C
	Phy            Phy
	CRU            CRU
	MetricsAddress string
	LogLevel       string
	LogFile        string
}

var DefaultConfig = &Config{
	I2C: I2C{
		Addr: 0x50,
	},

	Phy: Phy{
		Mode:    "mipi",
		RateMHz: 500,
		Flags:   1,
		// The PLL normally locks within a few tens of microseconds.
		LockTimeout: Duration(time.Millisecond),
	},

	// pclk_txphy_con is gated in CRU_GATE_CON01 bit 3 on the RK628D.
	CRU: CRU{
		PclkGateReg: 0xc0184,
		PclkGateBit: 3,
		Reset:       "txphy_con",
	},

	// Leave the exporter off unless asked for; the bridge is usually
	// configured once at boot.
	MetricsAddress: "",

	LogLevel: "info",
}

// Load returns DefaultConfig overlaid with the JSON file at path. Fields
// missing from the file keep their default.
func Load(fs afero.Fs, path string) (*Config, error) {
	c := *DefaultConfig
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &c, nil
}
