// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"sort"

	"github.com/segmentio/ksuid"
	"github.com/theory/jsonpath"
	"github.com/theory/jsonpath/registry"
	"github.com/tidwall/gjson"
)

// jsonpathParser is a package-level parser with RFC 9535 function extensions
var jsonpathParser = jsonpath.NewParser(jsonpath.WithRegistry(registry.New()))

var labelPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// DefaultKind is the manifest type discriminator for templated deployment
// units.
const DefaultKind = "azure.bicep.v0"

// Resource is a named node in an application's infrastructure graph. A
// resource never holds pointers to other resources; cross-resource links are
// label lookups into the owning Application.
type Resource struct {
	Label string `json:"Label"`
	Kind  string `json:"Kind"`

	// Template origin. Exactly one of the three may be set; the template
	// resolver rejects anything else.
	TemplatePath  string `json:"TemplatePath,omitempty"`
	TemplateText  string `json:"TemplateText,omitempty"`
	TemplateAsset string `json:"TemplateAsset,omitempty"`

	Parameters    map[string]ParameterValue `json:"-"`
	Outputs       map[string]string         `json:"Outputs,omitempty"`
	SecretOutputs map[string]string         `json:"-"`

	// ConnectionExpr is the symbolic connection-string expression emitted at
	// publish time. ConnectionValue is the concrete value produced by a
	// local run, if one has happened.
	ConnectionExpr  string `json:"ConnectionExpr,omitempty"`
	ConnectionValue string `json:"-"`

	Ksuid string `json:"Ksuid,omitempty"`
}

func NewResource(label string) (*Resource, error) {
	if !labelPattern.MatchString(label) {
		return nil, &ConfigurationError{
			Resource: label,
			Reason:   "label must start with a letter and contain only letters, digits, '_' or '-'",
		}
	}

	return &Resource{
		Label:         label,
		Kind:          DefaultKind,
		Parameters:    make(map[string]ParameterValue),
		Outputs:       make(map[string]string),
		SecretOutputs: make(map[string]string),
		Ksuid:         ksuid.New().String(),
	}, nil
}

func (r *Resource) WithTemplateFile(path string) *Resource {
	r.TemplatePath = path
	return r
}

func (r *Resource) WithTemplateText(text string) *Resource {
	r.TemplateText = text
	return r
}

func (r *Resource) WithTemplateAsset(asset string) *Resource {
	r.TemplateAsset = asset
	return r
}

// AddParameter sets a named parameter, overwriting any previous value under
// the same name.
func (r *Resource) AddParameter(name string, value ParameterValue) {
	if r.Parameters == nil {
		r.Parameters = make(map[string]ParameterValue)
	}
	r.Parameters[name] = value
}

// GetOutput returns a reference to a named output of this resource, suitable
// for use as another resource's parameter.
func (r *Resource) GetOutput(name string) OutputRef {
	return OutputRef{Resource: r.Label, Output: name}
}

// GetSecretOutput returns a reference to a named secret output of this
// resource.
func (r *Resource) GetSecretOutput(name string) SecretOutputRef {
	return SecretOutputRef{Resource: r.Label, Output: name}
}

// GetConnection returns a reference to this resource's connection-string
// expression.
func (r *Resource) GetConnection() ConnectionRef {
	return ConnectionRef{Resource: r.Label}
}

func (r *Resource) SetOutput(name, value string) {
	if r.Outputs == nil {
		r.Outputs = make(map[string]string)
	}
	r.Outputs[name] = value
}

func (r *Resource) SetSecretOutput(name, value string) {
	if r.SecretOutputs == nil {
		r.SecretOutputs = make(map[string]string)
	}
	r.SecretOutputs[name] = value
}

// SortedParameterNames returns the parameter names in ascending ordinal
// order. The checksum engine and the manifest serializer both iterate in
// this order so the two stay mutually consistent.
func (r *Resource) SortedParameterNames() []string {
	names := make([]string, 0, len(r.Parameters))
	for name := range r.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetParameterProperty retrieves a value from a JSON-structured parameter
// using a gjson query path. Null values are treated as not found.
func (r *Resource) GetParameterProperty(name, query string) (string, bool) {
	jv, ok := r.Parameters[name].(JSONValue)
	if !ok {
		return "", false
	}

	result := gjson.Get(string(jv.Raw), query)
	if !result.Exists() || result.Type == gjson.Null {
		return "", false
	}
	return result.String(), true
}

// GetParameterJSONPath retrieves a value from a JSON-structured parameter
// using RFC 9535 JSONPath syntax. Simple field names are normalized to
// JSONPath, so "Key1" behaves like "$.Key1".
func (r *Resource) GetParameterJSONPath(name, query string) (string, bool) {
	jv, ok := r.Parameters[name].(JSONValue)
	if !ok {
		return "", false
	}

	var data any
	if err := json.Unmarshal(jv.Raw, &data); err != nil {
		slog.Error("failed to unmarshal parameter", "parameter", name, "error", err)
		return "", false
	}

	if len(query) == 0 || query[0] != '$' {
		query = "$." + query
	}
	path, err := jsonpathParser.Parse(query)
	if err != nil {
		slog.Error("failed to parse jsonpath query", "query", query, "error", err)
		return "", false
	}
	nodes := path.Select(data)
	if len(nodes) == 0 {
		return "", false
	}
	if strVal, ok := nodes[0].(string); ok {
		return strVal, true
	}
	return fmt.Sprintf("%v", nodes[0]), true
}
