// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandHomePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "templates", "db.bicep"), ExpandHomePath("~/templates/db.bicep"))
	assert.Equal(t, "templates/db.bicep", ExpandHomePath("templates/db.bicep"))
	assert.Equal(t, "/etc/fabrica", ExpandHomePath("/etc/fabrica"))
	assert.Equal(t, "", ExpandHomePath(""))
}

func TestEnsureFileFolderHierarchy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log", "client.log")

	require.NoError(t, EnsureFileFolderHierarchy(path))

	info, err := os.Stat(filepath.Join(dir, "log"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
