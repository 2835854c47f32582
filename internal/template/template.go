// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package template

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/platform-engineering-labs/fabrica/internal/util"
	"github.com/platform-engineering-labs/fabrica/pkg/model"
)

// Extension is the file extension every materialized template carries.
const Extension = ".bicep"

//go:embed assets/*.bicep
var assets embed.FS

// Materialized is a template written to (or already present on) disk.
// Release deletes the file when it is temporary; callers that keep the file
// past the current scope own that call.
type Materialized struct {
	Path      string
	temporary bool
}

func (m *Materialized) Temporary() bool {
	return m.temporary
}

func (m *Materialized) Release() error {
	if !m.temporary {
		return nil
	}
	return os.Remove(m.Path)
}

// Resolve produces the on-disk location of a resource's template. destDir
// may be empty; inline and bundled templates then land in the system temp
// directory under a process-unique name and the handle is temporary.
func Resolve(res *model.Resource, destDir string) (*Materialized, error) {
	if err := validateSource(res); err != nil {
		return nil, err
	}

	switch {
	case res.TemplatePath != "":
		return &Materialized{Path: res.TemplatePath}, nil

	case res.TemplateText != "":
		path, err := writeTemplate(destDir, strings.ToLower(res.Label)+Extension, []byte(res.TemplateText))
		if err != nil {
			return nil, fmt.Errorf("failed to materialize inline template for %s: %w", res.Label, err)
		}
		return &Materialized{Path: path, temporary: destDir == ""}, nil

	default:
		data, err := assets.ReadFile("assets/" + res.TemplateAsset)
		if err != nil {
			return nil, &model.AssetNotFoundError{Asset: res.TemplateAsset}
		}
		path, err := writeTemplate(destDir, strings.ToLower(res.TemplateAsset), data)
		if err != nil {
			return nil, fmt.Errorf("failed to materialize asset template for %s: %w", res.Label, err)
		}
		return &Materialized{Path: path, temporary: destDir == ""}, nil
	}
}

// Content returns the raw template bytes without materializing anything:
// file contents read fresh, the inline text, or the bundled asset's bytes.
func Content(res *model.Resource) ([]byte, error) {
	if err := validateSource(res); err != nil {
		return nil, err
	}

	switch {
	case res.TemplatePath != "":
		data, err := os.ReadFile(res.TemplatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read template for %s: %w", res.Label, err)
		}
		return data, nil

	case res.TemplateText != "":
		return []byte(res.TemplateText), nil

	default:
		data, err := assets.ReadFile("assets/" + res.TemplateAsset)
		if err != nil {
			return nil, &model.AssetNotFoundError{Asset: res.TemplateAsset}
		}
		return data, nil
	}
}

func validateSource(res *model.Resource) error {
	sources := 0
	if res.TemplatePath != "" {
		sources++
	}
	if res.TemplateText != "" {
		sources++
	}
	if res.TemplateAsset != "" {
		sources++
	}

	if sources != 1 {
		return &model.ConfigurationError{
			Resource: res.Label,
			Reason:   "multiple or zero template sources",
		}
	}
	return nil
}

func writeTemplate(destDir, name string, data []byte) (string, error) {
	var path string
	if destDir == "" {
		// Process-unique name keeps concurrent publishes of different
		// applications from stepping on each other.
		path = filepath.Join(os.TempDir(), "fabrica-"+uuid.NewString()+Extension)
	} else {
		if err := util.EnsureFolderHierarchy(destDir); err != nil {
			return "", err
		}
		path = filepath.Join(destDir, name)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
