// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platform-engineering-labs/fabrica/pkg/model"
)

func newResource(t *testing.T, label string) *model.Resource {
	t.Helper()
	res, err := model.NewResource(label)
	require.NoError(t, err)
	return res
}

func TestResolve_RejectsZeroTemplateSources(t *testing.T) {
	res := newResource(t, "empty")

	_, err := Resolve(res, "")

	var cfgErr *model.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Error(), "multiple or zero template sources")
}

func TestResolve_RejectsMultipleTemplateSources(t *testing.T) {
	res := newResource(t, "double").
		WithTemplateText("param x string").
		WithTemplateAsset("storage.bicep")

	_, err := Resolve(res, "")

	var cfgErr *model.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestResolve_FilePathIsReturnedUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.bicep")
	require.NoError(t, os.WriteFile(path, []byte("param x string"), 0644))
	res := newResource(t, "api").WithTemplateFile(path)

	mat, err := Resolve(res, "")
	require.NoError(t, err)

	assert.Equal(t, path, mat.Path)
	assert.False(t, mat.Temporary())
}

func TestResolve_InlineTextWithoutDestinationIsTemporary(t *testing.T) {
	res := newResource(t, "api").WithTemplateText("param location string")

	mat, err := Resolve(res, "")
	require.NoError(t, err)

	assert.True(t, mat.Temporary())
	assert.True(t, strings.HasSuffix(mat.Path, Extension))

	data, err := os.ReadFile(mat.Path)
	require.NoError(t, err)
	assert.Equal(t, "param location string", string(data))

	require.NoError(t, mat.Release())
	_, err = os.Stat(mat.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestResolve_InlineTextWithDestinationIsKept(t *testing.T) {
	dir := t.TempDir()
	res := newResource(t, "Api").WithTemplateText("param location string")

	mat, err := Resolve(res, dir)
	require.NoError(t, err)

	assert.False(t, mat.Temporary())
	assert.Equal(t, filepath.Join(dir, "api.bicep"), mat.Path)

	// Release on a non-temporary handle leaves the file alone.
	require.NoError(t, mat.Release())
	_, err = os.Stat(mat.Path)
	assert.NoError(t, err)
}

func TestResolve_BundledAssetCopiesToLowercasedName(t *testing.T) {
	dir := t.TempDir()
	res := newResource(t, "storage").WithTemplateAsset("storage.bicep")

	mat, err := Resolve(res, dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "storage.bicep"), mat.Path)
	assert.False(t, mat.Temporary())

	data, err := os.ReadFile(mat.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "storageAccount")
}

func TestResolve_UnknownAssetFails(t *testing.T) {
	res := newResource(t, "storage").WithTemplateAsset("nope.bicep")

	_, err := Resolve(res, "")

	var nfErr *model.AssetNotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "nope.bicep", nfErr.Asset)
}

func TestContent_ReadsFileFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.bicep")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0644))
	res := newResource(t, "api").WithTemplateFile(path)

	data, err := Content(res)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0644))

	data, err = Content(res)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}
