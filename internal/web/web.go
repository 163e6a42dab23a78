// Package web serves the embedded storefront single-page UI.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed ui
var assets embed.FS

// Handler returns an http.Handler serving the UI at the site root. The asset
// tree is embedded at build time, so the server binary is self-contained.
func Handler() http.Handler {
	sub, err := fs.Sub(assets, "ui")
	if err != nil {
		// Unreachable: the ui directory is part of the embed directive.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
