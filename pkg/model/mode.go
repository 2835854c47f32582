// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

// EvalMode selects how cross-resource references are rendered: Run produces
// concrete values from the locally executing application, Publish produces
// symbolic deployment-time expressions.
type EvalMode string

const (
	EvalModeRun     EvalMode = "run"
	EvalModePublish EvalMode = "publish"
)
