// Package web embeds the HTML templates and static assets served by the app.
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates static
var files embed.FS

// Templates parses every partial and view. Views are looked up by file name,
// e.g. "index.tmpl".
func Templates() (*template.Template, error) {
	return template.ParseFS(files, "templates/partials/*.tmpl", "templates/views/*.tmpl")
}

// Static returns the public asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
