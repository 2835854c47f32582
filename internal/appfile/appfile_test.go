// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package appfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/platform-engineering-labs/fabrica/pkg/model"
)

const sampleApp = `
version: "1.0.0"
name: shop
runtimeParams:
  environment: production
resources:
  - name: vault
    template:
      asset: keyvault.bicep
    params:
      principalId: "{params.environment}"
  - name: cache
    kind: azure.bicep.v0
    connectionString: "{cache.outputs.hostName},ssl=true"
    template:
      text: "param keyVaultName string"
    params:
      keyVaultName: "{vault.outputs.name}"
      adminPassword: "{vault.secretOutputs.password}"
      upstream: "{vault.connectionString}"
      zones: ["1", "2"]
      replicas: 3
      tags:
        env: prod
`

func TestParse_BuildsTheFullGraph(t *testing.T) {
	app, err := Parse([]byte(sampleApp))
	require.NoError(t, err)

	assert.Equal(t, "shop", app.Name)
	require.Len(t, app.Resources, 2)

	env, ok := app.RuntimeParam("environment")
	assert.True(t, ok)
	assert.Equal(t, "production", env)

	vault, ok := app.Resource("vault")
	require.True(t, ok)
	assert.Equal(t, "keyvault.bicep", vault.TemplateAsset)
	assert.Equal(t, model.RuntimeParamRef{Name: "environment"}, vault.Parameters["principalId"])

	cache, ok := app.Resource("cache")
	require.True(t, ok)
	assert.Equal(t, "param keyVaultName string", cache.TemplateText)
	assert.Equal(t, "{cache.outputs.hostName},ssl=true", cache.ConnectionExpr)
}

func TestParse_RecognizesReferencePlaceholders(t *testing.T) {
	app, err := Parse([]byte(sampleApp))
	require.NoError(t, err)

	cache, ok := app.Resource("cache")
	require.True(t, ok)

	assert.Equal(t, model.OutputRef{Resource: "vault", Output: "name"}, cache.Parameters["keyVaultName"])
	assert.Equal(t, model.SecretOutputRef{Resource: "vault", Output: "password"}, cache.Parameters["adminPassword"])
	assert.Equal(t, model.ConnectionRef{Resource: "vault"}, cache.Parameters["upstream"])
}

func TestParse_MapsPlainValuesToLiteralShapes(t *testing.T) {
	app, err := Parse([]byte(sampleApp))
	require.NoError(t, err)

	cache, ok := app.Resource("cache")
	require.True(t, ok)

	assert.Equal(t, model.StringList{Items: []string{"1", "2"}}, cache.Parameters["zones"])
	assert.Equal(t, model.Literal{Value: 3}, cache.Parameters["replicas"])

	tags, isJSON := cache.Parameters["tags"].(model.JSONValue)
	require.True(t, isJSON)
	assert.Equal(t, "prod", gjson.Get(string(tags.Raw), "env").String())
}

func TestParse_ExpandsHomeInTemplateFilePaths(t *testing.T) {
	doc := `
name: shop
resources:
  - name: db
    template:
      file: ~/templates/db.bicep
`
	app, err := Parse([]byte(doc))
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	db, ok := app.Resource("db")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(home, "templates", "db.bicep"), db.TemplatePath)
}

func TestParse_DefaultsAndGatesVersion(t *testing.T) {
	_, err := Parse([]byte("name: shop\nresources: []\n"))
	assert.NoError(t, err)

	_, err = Parse([]byte("version: \"2.0.0\"\nname: shop\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported application file version")
	// The supported range is spelled out as its source constraint, not a
	// struct dump.
	assert.Contains(t, err.Error(), `(supported: ^1)`)

	_, err = Parse([]byte("version: \"banana\"\nname: shop\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid application file version")
}

func TestParse_RequiresApplicationName(t *testing.T) {
	_, err := Parse([]byte("version: \"1.0.0\"\nresources: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing a name")
}

func TestParse_RejectsDuplicateResourceNames(t *testing.T) {
	doc := `
name: shop
resources:
  - name: db
    template:
      text: "a"
  - name: db
    template:
      text: "b"
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate resource label")
}
