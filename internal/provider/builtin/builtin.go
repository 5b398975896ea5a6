// Package builtin assembles the adapter registry. It lives apart from
// package provider so the vendor packages can depend on provider without a
// cycle.
package builtin

import (
	"github.com/arcwise/bridgeway/internal/provider"
	"github.com/arcwise/bridgeway/internal/provider/confluence"
	"github.com/arcwise/bridgeway/internal/provider/datadog"
	"github.com/arcwise/bridgeway/internal/provider/mem0"
	"github.com/arcwise/bridgeway/internal/provider/onedrive"
	"github.com/arcwise/bridgeway/internal/provider/slack"
)

// Registry returns the registry of all built-in vendor adapters.
func Registry() *provider.Registry {
	return provider.NewRegistry(map[string]provider.Factory{
		"confluence": confluence.New,
		"datadog":    datadog.New,
		"mem0":       mem0.New,
		"onedrive":   onedrive.New,
		"slack":      slack.New,
	})
}
