// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package eval renders parameter values against an application graph, either
// as concrete values (run mode) or as symbolic deployment-time expressions
// (publish mode), and computes the content checksum that incremental-deploy
// logic keys on.
package eval

import (
	"fmt"
	"strings"

	"github.com/tidwall/pretty"

	"github.com/platform-engineering-labs/fabrica/pkg/model"
)

// Evaluate renders a single parameter value. It is a pure function of
// (value, mode, current graph state) and performs no I/O beyond reading
// template content for checksums.
func Evaluate(app *model.Application, value model.ParameterValue, mode model.EvalMode) (string, error) {
	e := &evaluator{app: app, visiting: make(map[string]bool)}
	return e.evaluate(value, mode)
}

type evaluator struct {
	app      *model.Application
	visiting map[string]bool
	path     []string
}

func (e *evaluator) evaluate(value model.ParameterValue, mode model.EvalMode) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil

	case model.Literal:
		if v.Value == nil {
			return "", nil
		}
		if s, ok := v.Value.(string); ok {
			return s, nil
		}
		return fmt.Sprintf("%v", v.Value), nil

	case model.StringList:
		quoted := make([]string, len(v.Items))
		for i, item := range v.Items {
			quoted[i] = "'" + item + "'"
		}
		// Inner items single-quoted, the whole list double-quoted. Downstream
		// manifest tooling depends on this exact shape.
		return `"[` + strings.Join(quoted, ", ") + `]"`, nil

	case model.JSONValue:
		return string(pretty.Ugly(v.Raw)), nil

	case model.ConnectionRef:
		return e.connection(v, mode)

	case model.OutputRef:
		return e.output(v, mode)

	case model.SecretOutputRef:
		return e.secretOutput(v, mode)

	case model.RuntimeParamRef:
		val, ok := e.app.RuntimeParam(v.Name)
		if !ok {
			return "", &model.MissingValueError{Property: v.Name}
		}
		return val, nil

	default:
		return fmt.Sprintf("%q", fmt.Sprintf("%v", value)), nil
	}
}

func (e *evaluator) connection(ref model.ConnectionRef, mode model.EvalMode) (string, error) {
	target, ok := e.app.Resource(ref.Resource)

	if mode == model.EvalModePublish {
		// Publish never requires the target to be resolvable in memory; a
		// missing or unset target degrades to the canonical placeholder.
		if ok && target.ConnectionExpr != "" {
			return target.ConnectionExpr, nil
		}
		return ref.Expr(), nil
	}

	if !ok || target.ConnectionValue == "" {
		return "", &model.MissingValueError{Resource: ref.Resource}
	}
	return target.ConnectionValue, nil
}

func (e *evaluator) output(ref model.OutputRef, mode model.EvalMode) (string, error) {
	if mode == model.EvalModePublish {
		return ref.Expr(), nil
	}

	target, ok := e.app.Resource(ref.Resource)
	if !ok {
		return "", &model.MissingValueError{Resource: ref.Resource, Property: ref.Output}
	}
	if _, produced := target.Outputs[ref.Output]; !produced {
		return "", &model.MissingValueError{Resource: ref.Resource, Property: ref.Output}
	}

	// The reference contributes the producer's state fingerprint, not the
	// output's value: downstream checksums must change whenever upstream
	// state does, without requiring resolved output values.
	sum, err := e.checksum(target)
	if err != nil {
		return "", err
	}
	return ref.Resource + "=" + sum, nil
}

func (e *evaluator) secretOutput(ref model.SecretOutputRef, mode model.EvalMode) (string, error) {
	if mode == model.EvalModePublish {
		return ref.Expr(), nil
	}

	target, ok := e.app.Resource(ref.Resource)
	if !ok {
		return "", &model.MissingValueError{Resource: ref.Resource, Property: ref.Output}
	}
	value, produced := target.SecretOutputs[ref.Output]
	if !produced {
		return "", &model.MissingValueError{Resource: ref.Resource, Property: ref.Output}
	}
	return value, nil
}
