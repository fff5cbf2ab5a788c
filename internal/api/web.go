package api

import (
	_ "embed"
	"net/http"

	"github.com/rs/zerolog/log"
)

//go:embed web/index.html
var indexHTML []byte

// serveIndex returns the upload page
func serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(indexHTML); err != nil {
		log.Warn().Err(err).Msg("Failed to write index page")
	}
}
