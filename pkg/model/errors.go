// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

import (
	"fmt"
	"strings"
)

// ConfigurationError indicates a caller mistake in how a resource was
// composed, e.g. zero or multiple template sources. Not retryable.
type ConfigurationError struct {
	Resource string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("resource %s is misconfigured: %s", e.Resource, e.Reason)
}

// AssetNotFoundError indicates a resource references a bundled template
// asset that does not exist in the binary's asset bundle.
type AssetNotFoundError struct {
	Asset string
}

func (e *AssetNotFoundError) Error() string {
	return fmt.Sprintf("bundled template asset %q not found", e.Asset)
}

// MissingValueError indicates a reference was resolved in run mode before
// the target produced the needed value. This is an ordering bug in the
// composition and is never silently defaulted.
type MissingValueError struct {
	Resource string
	Property string
}

func (e *MissingValueError) Error() string {
	switch {
	case e.Resource == "":
		return fmt.Sprintf("no value available for parameter %q yet", e.Property)
	case e.Property == "":
		return fmt.Sprintf("resource %s has not produced a connection value yet", e.Resource)
	default:
		return fmt.Sprintf("resource %s has not produced %q yet", e.Resource, e.Property)
	}
}

// CyclicReferenceError indicates two or more resources reference each other's
// outputs in a way that can never be resolved.
type CyclicReferenceError struct {
	Path []string
}

func (e *CyclicReferenceError) Error() string {
	return fmt.Sprintf("cyclic resource reference: %s", strings.Join(e.Path, " -> "))
}
