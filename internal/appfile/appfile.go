// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package appfile loads YAML application definition files into the model
// graph. Reference placeholders in parameter values use the same textual
// forms the manifest emits: {res.outputs.name}, {res.secretOutputs.name},
// {res.connectionString} and {params.name}.
package appfile

import (
	"fmt"
	"os"
	"regexp"

	json "github.com/goccy/go-json"
	"github.com/masterminds/semver"
	"gopkg.in/yaml.v3"

	"github.com/platform-engineering-labs/fabrica/internal/util"
	"github.com/platform-engineering-labs/fabrica/pkg/model"
)

// supportedVersionsSpec gates which definition file versions this build
// accepts.
const supportedVersionsSpec = "^1"

var supportedVersions = mustConstraint(supportedVersionsSpec)

const defaultVersion = "1.0.0"

type file struct {
	Version       string            `yaml:"version"`
	Name          string            `yaml:"name"`
	RuntimeParams map[string]string `yaml:"runtimeParams"`
	Resources     []resourceSpec    `yaml:"resources"`
}

type resourceSpec struct {
	Name             string               `yaml:"name"`
	Kind             string               `yaml:"kind"`
	Template         templateSpec         `yaml:"template"`
	ConnectionString string               `yaml:"connectionString"`
	Params           map[string]yaml.Node `yaml:"params"`
}

type templateSpec struct {
	File  string `yaml:"file"`
	Text  string `yaml:"text"`
	Asset string `yaml:"asset"`
}

var (
	resourceRefPattern  = regexp.MustCompile(`^\{([A-Za-z][A-Za-z0-9_-]*)\.(outputs|secretOutputs)\.([A-Za-z0-9_.-]+)\}$`)
	connectionPattern   = regexp.MustCompile(`^\{([A-Za-z][A-Za-z0-9_-]*)\.connectionString\}$`)
	runtimeParamPattern = regexp.MustCompile(`^\{params\.([A-Za-z0-9_.-]+)\}$`)
)

func Load(path string) (*model.Application, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read application file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*model.Application, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("cannot parse application file: %w", err)
	}

	if err := checkVersion(f.Version); err != nil {
		return nil, err
	}
	if f.Name == "" {
		return nil, fmt.Errorf("application file is missing a name")
	}

	app := model.NewApplication(f.Name)
	for name, value := range f.RuntimeParams {
		app.SetRuntimeParam(name, value)
	}

	for _, rs := range f.Resources {
		res, err := model.NewResource(rs.Name)
		if err != nil {
			return nil, err
		}
		if rs.Kind != "" {
			res.Kind = rs.Kind
		}
		res.TemplatePath = util.ExpandHomePath(rs.Template.File)
		res.TemplateText = rs.Template.Text
		res.TemplateAsset = rs.Template.Asset
		res.ConnectionExpr = rs.ConnectionString

		for name, node := range rs.Params {
			value, err := paramValue(&node)
			if err != nil {
				return nil, fmt.Errorf("resource %s, parameter %q: %w", rs.Name, name, err)
			}
			res.AddParameter(name, value)
		}

		if err := app.AddResource(res); err != nil {
			return nil, err
		}
	}

	return app, nil
}

func checkVersion(version string) error {
	if version == "" {
		version = defaultVersion
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid application file version %q: %w", version, err)
	}
	if !supportedVersions.Check(v) {
		return fmt.Errorf("unsupported application file version %q (supported: %s)", version, supportedVersionsSpec)
	}
	return nil
}

func paramValue(node *yaml.Node) (model.ParameterValue, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		if s, ok := v.(string); ok {
			return scalarValue(s), nil
		}
		return model.Literal{Value: v}, nil

	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err == nil {
			return model.StringList{Items: items}, nil
		}
		return jsonValue(node)

	case yaml.MappingNode:
		return jsonValue(node)

	default:
		return nil, fmt.Errorf("unsupported parameter node kind %v", node.Kind)
	}
}

func scalarValue(s string) model.ParameterValue {
	if m := runtimeParamPattern.FindStringSubmatch(s); m != nil {
		return model.RuntimeParamRef{Name: m[1]}
	}
	if m := connectionPattern.FindStringSubmatch(s); m != nil {
		return model.ConnectionRef{Resource: m[1]}
	}
	if m := resourceRefPattern.FindStringSubmatch(s); m != nil {
		if m[2] == "secretOutputs" {
			return model.SecretOutputRef{Resource: m[1], Output: m[3]}
		}
		return model.OutputRef{Resource: m[1], Output: m[3]}
	}
	return model.Literal{Value: s}
}

func jsonValue(node *yaml.Node) (model.ParameterValue, error) {
	var v any
	if err := node.Decode(&v); err != nil {
		return nil, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return model.JSONValue{Raw: data}, nil
}

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}
