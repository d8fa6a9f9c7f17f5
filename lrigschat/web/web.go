// lrigschat/web/web.go
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// Handler serves the embedded chat UI.
func Handler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("embedded static assets missing: " + err.Error())
	}
	return http.FileServer(http.FS(sub))
}
