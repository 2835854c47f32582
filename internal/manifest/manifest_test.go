// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/platform-engineering-labs/fabrica/pkg/model"
)

func newResource(t *testing.T, label string) *model.Resource {
	t.Helper()
	res, err := model.NewResource(label)
	require.NoError(t, err)
	res.WithTemplateText("param location string")
	return res
}

func TestWriteResource_EmitsTypeAndRelativePath(t *testing.T) {
	dir := t.TempDir()
	app := model.NewApplication("shop")
	res := newResource(t, "api")
	require.NoError(t, app.AddResource(res))

	w := NewWriter(app, dir)
	require.NoError(t, w.WriteResource(res))

	doc := string(w.Document())
	assert.Equal(t, "azure.bicep.v0", gjson.Get(doc, "resources.api.type").String())
	assert.Equal(t, "shop/api.bicep", gjson.Get(doc, "resources.api.path").String())

	// The materialized template must still exist after the fragment is
	// written; cleanup belongs to the publish scope, not the serializer.
	_, err := os.Stat(filepath.Join(dir, "shop", "api.bicep"))
	assert.NoError(t, err)
}

func TestWriteResource_ParamsSortedRegardlessOfInsertionOrder(t *testing.T) {
	dir := t.TempDir()
	app := model.NewApplication("shop")
	res := newResource(t, "api")
	res.AddParameter("b", model.Literal{Value: "y"})
	res.AddParameter("a", model.Literal{Value: "x"})
	require.NoError(t, app.AddResource(res))

	w := NewWriter(app, dir)
	require.NoError(t, w.WriteResource(res))

	doc := string(w.Document())
	assert.Equal(t, "x", gjson.Get(doc, "resources.api.params.a").String())
	assert.Equal(t, "y", gjson.Get(doc, "resources.api.params.b").String())

	params := gjson.Get(doc, "resources.api.params").Raw
	assert.Less(t, strings.Index(params, `"a"`), strings.Index(params, `"b"`))
}

func TestWriteResource_EmitsConnectionStringExpression(t *testing.T) {
	dir := t.TempDir()
	app := model.NewApplication("shop")
	res := newResource(t, "cache")
	res.ConnectionExpr = "{cache.outputs.hostName},ssl=true"
	require.NoError(t, app.AddResource(res))

	w := NewWriter(app, dir)
	require.NoError(t, w.WriteResource(res))

	doc := string(w.Document())
	assert.Equal(t, "{cache.outputs.hostName},ssl=true", gjson.Get(doc, "resources.cache.connectionString").String())
}

func TestWriteResource_OmitsConnectionStringWhenUnset(t *testing.T) {
	dir := t.TempDir()
	app := model.NewApplication("shop")
	res := newResource(t, "api")
	require.NoError(t, app.AddResource(res))

	w := NewWriter(app, dir)
	require.NoError(t, w.WriteResource(res))

	assert.False(t, gjson.Get(string(w.Document()), "resources.api.connectionString").Exists())
}

func TestWriteResource_StructuredParamsAreNativeJSON(t *testing.T) {
	dir := t.TempDir()
	app := model.NewApplication("shop")
	res := newResource(t, "api")
	res.AddParameter("tags", model.JSONValue{Raw: json.RawMessage(`{"env": "prod", "replicas": 3}`)})
	res.AddParameter("zones", model.StringList{Items: []string{"1", "2"}})
	require.NoError(t, app.AddResource(res))

	w := NewWriter(app, dir)
	require.NoError(t, w.WriteResource(res))

	doc := string(w.Document())
	assert.Equal(t, "prod", gjson.Get(doc, "resources.api.params.tags.env").String())
	assert.Equal(t, int64(3), gjson.Get(doc, "resources.api.params.tags.replicas").Int())
	assert.True(t, gjson.Get(doc, "resources.api.params.zones").IsArray())
	assert.Equal(t, "1", gjson.Get(doc, "resources.api.params.zones.0").String())
}

func TestWriteResource_ReferenceParamsUsePublishForms(t *testing.T) {
	dir := t.TempDir()
	app := model.NewApplication("shop")
	db := newResource(t, "db")
	require.NoError(t, app.AddResource(db))

	api := newResource(t, "api")
	api.AddParameter("conn", model.OutputRef{Resource: "db", Output: "connectionString"})
	require.NoError(t, app.AddResource(api))

	w := NewWriter(app, dir)
	require.NoError(t, w.WriteResource(api))

	doc := string(w.Document())
	assert.Equal(t, "{db.outputs.connectionString}", gjson.Get(doc, "resources.api.params.conn").String())
}

func TestPublish_WritesResourcesInInsertionOrder(t *testing.T) {
	dir := t.TempDir()
	app := model.NewApplication("shop")
	require.NoError(t, app.AddResource(newResource(t, "zeta")))
	require.NoError(t, app.AddResource(newResource(t, "alpha")))

	manifestPath := filepath.Join(dir, "shop.manifest.json")
	require.NoError(t, Publish(app, manifestPath, false))

	data, err := os.ReadFile(manifestPath)
	require.NoError(t, err)

	doc := string(data)
	assert.True(t, gjson.Get(doc, "resources.zeta").Exists())
	assert.True(t, gjson.Get(doc, "resources.alpha").Exists())
	assert.Less(t, strings.Index(doc, `"zeta"`), strings.Index(doc, `"alpha"`))
}

func TestPublish_ScopesTemplatesPerApplication(t *testing.T) {
	dir := t.TempDir()

	shop := model.NewApplication("shop")
	shopDb, err := model.NewResource("db")
	require.NoError(t, err)
	shopDb.WithTemplateText("param shopDb string")
	require.NoError(t, shop.AddResource(shopDb))

	billing := model.NewApplication("billing")
	billingDb, err := model.NewResource("db")
	require.NoError(t, err)
	billingDb.WithTemplateText("param billingDb string")
	require.NoError(t, billing.AddResource(billingDb))

	require.NoError(t, Publish(shop, filepath.Join(dir, "shop.manifest.json"), false))
	require.NoError(t, Publish(billing, filepath.Join(dir, "billing.manifest.json"), false))

	// Same label in two applications sharing an output directory must not
	// overwrite each other's templates.
	shopTpl, err := os.ReadFile(filepath.Join(dir, "shop", "db.bicep"))
	require.NoError(t, err)
	billingTpl, err := os.ReadFile(filepath.Join(dir, "billing", "db.bicep"))
	require.NoError(t, err)
	assert.Equal(t, "param shopDb string", string(shopTpl))
	assert.Equal(t, "param billingDb string", string(billingTpl))

	data, err := os.ReadFile(filepath.Join(dir, "shop.manifest.json"))
	require.NoError(t, err)
	assert.Equal(t, "shop/db.bicep", gjson.Get(string(data), "resources.db.path").String())
}

func TestPublish_FailedResourceAbortsTheDocument(t *testing.T) {
	dir := t.TempDir()
	app := model.NewApplication("shop")
	broken, err := model.NewResource("broken")
	require.NoError(t, err)
	require.NoError(t, app.AddResource(broken))

	manifestPath := filepath.Join(dir, "shop.manifest.json")
	err = Publish(app, manifestPath, true)

	var cfgErr *model.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	_, statErr := os.Stat(manifestPath)
	assert.True(t, os.IsNotExist(statErr))
}
