// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package manifest serializes an application graph into the deployment
// manifest consumed by the execution engine: one JSON fragment per resource,
// keyed by label, with publish-mode parameter expressions.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/platform-engineering-labs/fabrica/internal/eval"
	"github.com/platform-engineering-labs/fabrica/internal/template"
	"github.com/platform-engineering-labs/fabrica/internal/util"
	"github.com/platform-engineering-labs/fabrica/pkg/model"
)

// Writer accumulates per-resource fragments into a single manifest document.
// One Writer serves one publish pass; it is not safe for concurrent use.
type Writer struct {
	app    *model.Application
	dir    string
	tplDir string
	doc    []byte
}

func NewWriter(app *model.Application, manifestDir string) *Writer {
	return &Writer{
		app: app,
		dir: manifestDir,
		// Templates land in an application-scoped subdirectory so concurrent
		// publishes into a shared output directory cannot collide on label.
		tplDir: filepath.Join(manifestDir, strings.ToLower(app.Name)),
		doc:    []byte(`{"resources":{}}`),
	}
}

// WriteResource appends one resource's fragment to the document. The
// materialized template is intentionally not released here: the emitted
// manifest references it after this call returns, so cleanup belongs to the
// caller's publish scope.
func (w *Writer) WriteResource(res *model.Resource) error {
	frag, err := sjson.SetBytes([]byte(`{}`), "type", res.Kind)
	if err != nil {
		return fmt.Errorf("failed to emit type for %s: %w", res.Label, err)
	}

	mat, err := template.Resolve(res, w.tplDir)
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(w.dir, mat.Path)
	if err != nil {
		// Template lives outside the manifest tree; fall back to as-is.
		rel = mat.Path
	}
	frag, err = sjson.SetBytes(frag, "path", filepath.ToSlash(rel))
	if err != nil {
		return fmt.Errorf("failed to emit path for %s: %w", res.Label, err)
	}

	if res.ConnectionExpr != "" {
		frag, err = sjson.SetBytes(frag, "connectionString", res.ConnectionExpr)
		if err != nil {
			return fmt.Errorf("failed to emit connectionString for %s: %w", res.Label, err)
		}
	}

	// Same sorted-by-key order the checksum engine uses, so tooling can
	// recompute one from the other.
	for _, name := range res.SortedParameterNames() {
		frag, err = w.writeParameter(frag, res, name)
		if err != nil {
			return fmt.Errorf("failed to emit parameter %q for %s: %w", name, res.Label, err)
		}
	}

	w.doc, err = sjson.SetRawBytes(w.doc, "resources."+escapeKey(res.Label), frag)
	if err != nil {
		return fmt.Errorf("failed to append fragment for %s: %w", res.Label, err)
	}
	return nil
}

func (w *Writer) writeParameter(frag []byte, res *model.Resource, name string) ([]byte, error) {
	path := "params." + escapeKey(name)

	switch v := res.Parameters[name].(type) {
	case model.JSONValue:
		return sjson.SetRawBytes(frag, path, pretty.Ugly(v.Raw))

	case model.StringList:
		data, err := json.Marshal(v.Items)
		if err != nil {
			return nil, err
		}
		return sjson.SetRawBytes(frag, path, data)

	default:
		value, err := eval.Evaluate(w.app, res.Parameters[name], model.EvalModePublish)
		if err != nil {
			return nil, err
		}
		return sjson.SetBytes(frag, path, value)
	}
}

// Document returns the accumulated manifest as compact JSON.
func (w *Writer) Document() []byte {
	return w.doc
}

// Publish walks the application's resources in insertion order and writes
// the complete manifest to manifestPath. Templates are materialized into an
// application-scoped directory next to the manifest and left in place for
// the deployment engine to pick up.
func Publish(app *model.Application, manifestPath string, beautify bool) error {
	w := NewWriter(app, filepath.Dir(manifestPath))

	for _, res := range app.Resources {
		if err := w.WriteResource(res); err != nil {
			return fmt.Errorf("cannot serialize resource %s: %w", res.Label, err)
		}
	}

	data := w.Document()
	if beautify {
		data = pretty.PrettyOptions(data, &pretty.Options{
			Width:  80,
			Indent: "  ",
		})
	}

	if err := util.EnsureFileFolderHierarchy(manifestPath); err != nil {
		return fmt.Errorf("cannot create manifest directory: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return fmt.Errorf("cannot write manifest: %w", err)
	}
	return nil
}

// escapeKey protects dots in user-supplied keys from being read as JSON path
// separators.
func escapeKey(key string) string {
	return strings.ReplaceAll(key, ".", `\.`)
}
