package routes

import (
	"net/http"
	"strings"
)

// FilesHandler serves the local storage backend's directory under baseURL.
// Outputs uploaded through the local backend become retrievable at the same
// URLs its PresignURL returns.
func FilesHandler(baseURL, dir string) http.Handler {
	prefix := strings.TrimSuffix(baseURL, "/") + "/"
	return http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
}
