// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

// Reserved parameter names with conventional meaning to downstream
// deployment tooling. The core treats them as opaque literal strings.
const (
	ParamPrincipalID   = "principalId"
	ParamPrincipalName = "principalName"
	ParamPrincipalType = "principalType"
	ParamKeyVaultName  = "keyVaultName"
)
