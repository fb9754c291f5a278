package api

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	paperpdf "github.com/alnah/go-paperpdf"
)

// defaultSurfaceID identifies exports that name neither a surface nor a
// canvas.
const defaultSurfaceID = "surface"

type exportRequest struct {
	SurfaceID   string `json:"surfaceId"`
	PaperSizeID string `json:"paperSizeId"`
	HTML        string `json:"html"`
	Markdown    string `json:"markdown"`
	CanvasID    string `json:"canvasId"`
	Filename    string `json:"filename"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeBody(w, r, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	hint := req.Filename
	if req.CanvasID != "" {
		rec, ok := s.library.Get(req.CanvasID)
		if !ok {
			renderError(w, r, http.StatusNotFound, "Canvas not found")
			return
		}
		if hint == "" {
			hint = rec.Name
		}
	}

	surfaceID := req.SurfaceID
	if surfaceID == "" {
		surfaceID = req.CanvasID
	}
	if surfaceID == "" {
		surfaceID = defaultSurfaceID
	}

	surface, err := s.buildSurface(r, surfaceID, req)
	if err != nil {
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	paper := paperpdf.ResolvePaperSize(req.PaperSizeID)
	res, err := s.exporter.Export(r.Context(), surface, paper, hint)
	switch {
	case errors.Is(err, paperpdf.ErrExportInProgress):
		renderError(w, r, http.StatusConflict, "Export already in progress")
		return
	case errors.Is(err, paperpdf.ErrCaptureFailure), errors.Is(err, paperpdf.ErrEncodingFailure):
		renderError(w, r, http.StatusUnprocessableEntity, paperpdf.ExportFailedMessage)
		return
	case err != nil:
		s.log.WithError(err).WithField("surface_id", surfaceID).Error("Export request failed")
		renderError(w, r, http.StatusInternalServerError, "Export failed")
		return
	case res == nil:
		renderError(w, r, http.StatusBadRequest, "Nothing to export")
		return
	}

	s.log.WithFields(logrus.Fields{
		"export_id":  res.ID,
		"surface_id": surfaceID,
		"paper_size": paper.ID,
		"bytes":      len(res.PDF),
	}).Debug("Sending export")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.PDF)))
	w.Header().Set("X-Export-ID", res.ID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PDF)
}

// buildSurface turns the inline HTML or Markdown into a surface.
func (s *Server) buildSurface(r *http.Request, id string, req exportRequest) (*paperpdf.Surface, error) {
	switch {
	case strings.TrimSpace(req.HTML) != "":
		return paperpdf.NewHTMLSurface(id, req.HTML), nil
	case strings.TrimSpace(req.Markdown) != "":
		return paperpdf.NewMarkdownSurface(r.Context(), id, req.Markdown)
	default:
		return nil, errors.New("html or markdown is required")
	}
}
