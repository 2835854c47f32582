// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

import (
	"fmt"
)

// Application owns the full set of resources composed by the user. It is the
// registry every cross-resource reference resolves against; resources are
// looked up by label, never by pointer.
//
// Composition is single-writer: callers must serialize concurrent mutation
// themselves.
type Application struct {
	Name          string
	Resources     []*Resource
	RuntimeParams map[string]string

	index map[string]*Resource
}

func NewApplication(name string) *Application {
	return &Application{
		Name:          name,
		RuntimeParams: make(map[string]string),
		index:         make(map[string]*Resource),
	}
}

// AddResource registers a resource under its label. Labels are unique per
// application.
func (a *Application) AddResource(r *Resource) error {
	if a.index == nil {
		a.index = make(map[string]*Resource)
	}
	if _, exists := a.index[r.Label]; exists {
		return fmt.Errorf("duplicate resource label %q", r.Label)
	}

	a.index[r.Label] = r
	a.Resources = append(a.Resources, r)
	return nil
}

// Resource looks up a resource by label.
func (a *Application) Resource(label string) (*Resource, bool) {
	r, ok := a.index[label]
	return r, ok
}

func (a *Application) SetRuntimeParam(name, value string) {
	if a.RuntimeParams == nil {
		a.RuntimeParams = make(map[string]string)
	}
	a.RuntimeParams[name] = value
}

func (a *Application) RuntimeParam(name string) (string, bool) {
	value, ok := a.RuntimeParams[name]
	return value, ok
}
