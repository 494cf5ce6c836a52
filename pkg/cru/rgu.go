// Copyright 2026 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cru

import (
	"fmt"
	"strings"
)

// ResetID names one of the RK628 reset generation unit lines.
type ResetID int

const (
	RGU_LOGIC ResetID = iota
	RGU_CRU
	RGU_I2C2APB
	RGU_EFUSE
	RGU_TXPHY_CON
	RGU_REGFILE
	RGU_ADAPTER
	RGU_DECODER
	RGU_ENCODER
	RGU_HDMIRX_PON
	RGU_TXBYTEHS
	RGU_TXESC
	RGU_GPIO0
	RGU_GPIO1
	RGU_GPIO2
	RGU_GPIO3
	RGU_GPIO_DB0
	RGU_GPIO_DB1
	RGU_GPIO_DB2
	RGU_GPIO_DB3
	RGU_TXDATA
	RGU_VOP
	RGU_BT1120DEC
	RGU_GVIHOST
	RGU_DSI0
	RGU_DSI1
	RGU_CSI
	RGU_HDMITX
	RGU_RXPHY
	RGU_CLK_RX
	RGU_HDMIRX

	NumResets
)

var resetNames = [NumResets]string{
	"logic", "cru", "i2c2apb", "efuse", "txphy_con", "regfile", "adapter",
	"decoder", "encoder", "hdmirx_pon", "txbytehs", "txesc", "gpio0",
	"gpio1", "gpio2", "gpio3", "gpio_db0", "gpio_db1", "gpio_db2",
	"gpio_db3", "txdata", "vop", "bt1120dec", "gvihost", "dsi0", "dsi1",
	"csi", "hdmitx", "rxphy", "clk_rx", "hdmirx",
}

func (id ResetID) String() string {
	if id < 0 || id >= NumResets {
		return fmt.Sprintf("ResetID(%d)", int(id))
	}
	return resetNames[id]
}

// ParseResetID accepts a line name such as "txphy_con", case-insensitive,
// with or without the "rgu_" prefix.
func ParseResetID(s string) (ResetID, error) {
	n := strings.TrimPrefix(strings.ToLower(s), "rgu_")
	for i, name := range resetNames {
		if name == n {
			return ResetID(i), nil
		}
	}
	return 0, fmt.Errorf("unknown reset line %q", s)
}
