// Package frontend embeds the built SPA assets served by the HTTP server.
package frontend

import "embed"

//go:embed dist
var StaticFiles embed.FS
