package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	paperpdf "github.com/alnah/go-paperpdf"
)

// paperSizeResponse adds the derived layout values a view needs to draw
// the page box.
type paperSizeResponse struct {
	paperpdf.PaperSize
	Orientation paperpdf.Orientation `json:"orientation"`
	WidthPx     float64              `json:"widthPx"`
	HeightPx    float64              `json:"heightPx"`
	Default     bool                 `json:"default"`
}

func newPaperSizeResponse(p paperpdf.PaperSize) paperSizeResponse {
	w, h := p.PixelSize()
	return paperSizeResponse{
		PaperSize:   p,
		Orientation: p.Orientation(),
		WidthPx:     w,
		HeightPx:    h,
		Default:     p.ID == paperpdf.DefaultPaperSize().ID,
	}
}

func (s *Server) handleListPaperSizes(w http.ResponseWriter, r *http.Request) {
	sizes := paperpdf.PaperSizes()
	out := make([]paperSizeResponse, 0, len(sizes))
	for _, p := range sizes {
		out = append(out, newPaperSizeResponse(p))
	}
	render.JSON(w, r, out)
}

func (s *Server) handleGetPaperSize(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, newPaperSizeResponse(paperpdf.ResolvePaperSize(chi.URLParam(r, "id"))))
}
