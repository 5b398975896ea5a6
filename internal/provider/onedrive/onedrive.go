// Package onedrive exposes OneDrive files via the Microsoft Graph API:
// folder listings, item metadata, drive search, and shared items.
package onedrive

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/arcwise/bridgeway/internal/normalize"
	"github.com/arcwise/bridgeway/internal/provider"
	"github.com/arcwise/bridgeway/internal/shape"
)

const defaultBaseURL = "https://graph.microsoft.com/v1.0"

// skipTokenParam is the query parameter Graph uses inside @odata.nextLink
// to carry the next-page cursor.
const skipTokenParam = "$skiptoken"

// Connector is the OneDrive adapter.
type Connector struct {
	*provider.Base
}

// New builds the OneDrive adapter.
func New(config *provider.Config) (provider.Provider, error) {
	return &Connector{Base: provider.NewBase("onedrive", defaultBaseURL, config)}, nil
}

// Tools returns the OneDrive tool set.
func (c *Connector) Tools() []server.ServerTool {
	return []server.ServerTool{
		c.toolListChildren(),
		c.toolGetItem(),
		c.toolSearch(),
		c.toolListShared(),
	}
}

// EnvVars returns the env vars consulted for credentials on stdio transport.
func (c *Connector) EnvVars() []string {
	return c.CredentialEnvVars("ONEDRIVE_TOKEN", "MSGRAPH_TOKEN")
}

// itemType classifies a drive item by its facet. Graph marks folders and
// files with presence of the corresponding sub-object rather than a type
// field.
var itemType = normalize.Mapper(func(source any) (any, error) {
	switch {
	case normalize.Get(source, "folder") != nil:
		return "folder", nil
	case normalize.Get(source, "file") != nil:
		return "file", nil
	case normalize.Get(source, "remoteItem") != nil:
		return "remote", nil
	}
	return nil, nil
})

// driveItemRules covers files, folders, and shared items alike. Identity
// fields fall back from display name to email because Graph omits the
// display name for some guest and application identities.
var driveItemRules = normalize.RuleSet{
	{Name: "id", Rule: normalize.Path("id")},
	{Name: "name", Rule: normalize.Path("name")},
	{Name: "type", Rule: itemType},
	{Name: "size", Rule: normalize.Path("size")},
	{Name: "url", Rule: normalize.Path("webUrl")},
	{Name: "createdAt", Rule: normalize.Path("createdDateTime")},
	{Name: "modifiedAt", Rule: normalize.Path("lastModifiedDateTime")},
	{Name: "createdBy", Rule: normalize.First("createdBy.user.displayName", "createdBy.user.email", "createdBy.application.displayName")},
	{Name: "modifiedBy", Rule: normalize.First("lastModifiedBy.user.displayName", "lastModifiedBy.user.email", "lastModifiedBy.application.displayName")},
	{Name: "mimeType", Rule: normalize.Path("file.mimeType")},
	{Name: "childCount", Rule: normalize.Path("folder.childCount")},
	{Name: "parentPath", Rule: normalize.Path("parentReference.path")},
}

// nextToken extracts the pagination cursor from a Graph list response. The
// @odata.nextLink key contains a literal dot, so it is read directly rather
// than through a dot path.
func nextToken(raw any) string {
	obj, ok := raw.(map[string]any)
	if !ok {
		return ""
	}
	next, _ := obj["@odata.nextLink"].(string)
	return shape.PageToken(next, skipTokenParam)
}
