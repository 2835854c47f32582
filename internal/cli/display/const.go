// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package display

const (
	Tool       = "fabrica"
	BannerBlue = `
   oooooooo     o      oooooo    oooooo    oo   oooooo     o
  ooo         o0 0o    oo   0o   oo   0o   oo  oo    oo   o0 0o
  oo0        o0   0o   oo   0o   oo   0o   oo  oo        o0   0o
  oooooo    o0     0o  oooooo    oooooo    oo  oo       o0     0o
  oo0       oooooooooo oo   0o   oo  0o    oo  oo       oooooooooo
  oo0       o0      0o oo   0o   oo   0o   oo  oo    oo o0      0o
  ooo       o0      0o oooooo    oo    0o  oo   oooooo  o0      0o
`
	BannerGold = `
    vversion
`
	DocRoot = "https://docs.fabrica.platform.engineering/en/latest"
)
