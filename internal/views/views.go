// Package views holds the embedded HTML templates and static assets.
package views

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var templates embed.FS

//go:embed public
var public embed.FS

// Sort labels shown above the task list.
const (
	SortAll       = "All"
	SortCompleted = "Completed"
	SortPending   = "Pending"
)

// Engine returns a template engine over the embedded templates.
// Views are addressed by file name without extension ("login", "home").
func Engine() *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}

// Static returns the embedded public assets.
func Static() http.FileSystem {
	sub, err := fs.Sub(public, "public")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
