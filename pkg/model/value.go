// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

import (
	"encoding/json"
)

// ParameterValue is the closed set of shapes a resource parameter can take.
// Every variant must be handled by both the checksum path and the manifest
// path; the sealed interface keeps the set closed at compile time.
type ParameterValue interface {
	parameterValue()
}

// Literal is a plain scalar parameter value (string, number, bool).
type Literal struct {
	Value any
}

// StringList is a parameter holding an ordered collection of strings.
type StringList struct {
	Items []string
}

// JSONValue is a parameter carrying structured JSON that is passed through
// to the manifest untouched.
type JSONValue struct {
	Raw json.RawMessage
}

// OutputRef points at a named output of another resource in the same
// application. It is a non-owning lookup by label, never a direct pointer.
type OutputRef struct {
	Resource string
	Output   string
}

// SecretOutputRef points at a named secret output of another resource.
type SecretOutputRef struct {
	Resource string
	Output   string
}

// ConnectionRef points at another resource's connection-string expression.
type ConnectionRef struct {
	Resource string
}

// RuntimeParamRef points at a user-supplied runtime parameter on the
// application.
type RuntimeParamRef struct {
	Name string
}

func (Literal) parameterValue()         {}
func (StringList) parameterValue()      {}
func (JSONValue) parameterValue()       {}
func (OutputRef) parameterValue()       {}
func (SecretOutputRef) parameterValue() {}
func (ConnectionRef) parameterValue()   {}
func (RuntimeParamRef) parameterValue() {}

// Expr returns the deployment-time placeholder form of the reference.
func (r OutputRef) Expr() string {
	return "{" + r.Resource + ".outputs." + r.Output + "}"
}

// Expr returns the deployment-time placeholder form of the reference.
func (r SecretOutputRef) Expr() string {
	return "{" + r.Resource + ".secretOutputs." + r.Output + "}"
}

// Expr returns the deployment-time placeholder form of the reference.
func (r ConnectionRef) Expr() string {
	return "{" + r.Resource + ".connectionString}"
}
