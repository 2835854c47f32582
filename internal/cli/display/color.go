// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package display

import (
	gkcolor "github.com/gookit/color"
)

func Gold(s string) string {
	return gkcolor.RGB(196, 176, 84).Sprint(s)
}

func Green(s string) string {
	return gkcolor.FgGreen.Sprint(s)
}

func Grey(s string) string {
	return gkcolor.RGB(128, 128, 128).Sprint(s)
}

func LightBlue(s string) string {
	return gkcolor.HiBlue.Sprint(s)
}

func Red(s string) string {
	return gkcolor.FgRed.Sprint(s)
}
