package confluence

import (
	"github.com/arcwise/bridgeway/internal/normalize"
	"github.com/arcwise/bridgeway/internal/shape"
)

// webuiURL resolves the absolute web UI link from the _links base+relative
// pair Confluence puts on single-object responses.
var webuiURL = normalize.Mapper(func(source any) (any, error) {
	u := shape.ResolveURL(
		normalize.GetString(source, "_links.base"),
		normalize.GetString(source, "_links.webui"),
	)
	if u == "" {
		return nil, nil
	}
	return u, nil
})

var pageRules = normalize.RuleSet{
	{Name: "id", Rule: normalize.Path("id")},
	{Name: "title", Rule: normalize.Path("title")},
	{Name: "status", Rule: normalize.Path("status")},
	{Name: "spaceId", Rule: normalize.Path("spaceId")},
	{Name: "parentId", Rule: normalize.Path("parentId")},
	{Name: "authorId", Rule: normalize.Path("authorId")},
	{Name: "createdAt", Rule: normalize.Path("createdAt")},
	{Name: "version", Rule: normalize.Path("version.number")},
	{Name: "body", Rule: normalize.Path("body.storage.value")},
	{Name: "url", Rule: webuiURL},
}

var spaceRules = normalize.RuleSet{
	{Name: "id", Rule: normalize.Path("id")},
	{Name: "key", Rule: normalize.Path("key")},
	{Name: "name", Rule: normalize.Path("name")},
	{Name: "type", Rule: normalize.Path("type")},
	{Name: "status", Rule: normalize.Path("status")},
	{Name: "homepageId", Rule: normalize.Path("homepageId")},
	{Name: "description", Rule: normalize.Path("description.plain.value")},
}

var attachmentRules = normalize.RuleSet{
	{Name: "id", Rule: normalize.Path("id")},
	{Name: "title", Rule: normalize.Path("title")},
	{Name: "status", Rule: normalize.Path("status")},
	{Name: "mediaType", Rule: normalize.Path("mediaType")},
	{Name: "fileSize", Rule: normalize.Path("fileSize")},
	{Name: "pageId", Rule: normalize.Path("pageId")},
	{Name: "downloadLink", Rule: normalize.First("downloadLink", "_links.download")},
}

var searchResultRules = normalize.RuleSet{
	{Name: "id", Rule: normalize.Path("content.id")},
	{Name: "type", Rule: normalize.Path("content.type")},
	{Name: "status", Rule: normalize.Path("content.status")},
	{Name: "title", Rule: normalize.First("content.title", "title")},
	{Name: "excerpt", Rule: normalize.Path("excerpt")},
	{Name: "lastModified", Rule: normalize.Path("lastModified")},
	{Name: "space", Rule: normalize.JQ(".resultGlobalContainer.title")},
}
