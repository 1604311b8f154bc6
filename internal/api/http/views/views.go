// Package views holds the server-side screens. Pages are rendered inside the
// shared layout through its {{embed}} call.
package views

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// Layout is the template every page is rendered into. Pass it as
// fiber.Config.ViewsLayout.
const Layout = "layout"

// New builds the html engine over the embedded templates and parses them.
func New() (*html.Engine, error) {
	root, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("open views: %w", err)
	}
	engine := html.NewFileSystem(http.FS(root), ".html")
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("load views: %w", err)
	}
	return engine, nil
}
