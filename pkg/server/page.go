package server

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/matzehuels/lineage/pkg/render/styles"
)

//go:embed assets
var assets embed.FS

var pageTemplate = template.Must(template.ParseFS(assets, "assets/index.html"))

// pageData fills assets/index.html.
type pageData struct {
	Title      string
	Width      int
	Height     int
	MinZoom    float64
	MaxZoom    float64
	OffsetX    float64
	DurationMS int64
	Easing     string
	CSS        template.CSS
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	vp := s.opts.Viewport
	data := pageData{
		Title:      s.Record().Name,
		Width:      vp.Width,
		Height:     vp.Height,
		MinZoom:    vp.MinZoom,
		MaxZoom:    vp.MaxZoom,
		OffsetX:    vp.OffsetX,
		DurationMS: s.opts.Pipeline.DurationMS,
		Easing:     s.opts.Pipeline.Easing,
		CSS:        template.CSS(styles.DefaultTheme().CSS()),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func assetHandler() http.Handler {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
