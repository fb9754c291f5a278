package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"github.com/alnah/go-paperpdf/internal/canvas"
)

type canvasRequest struct {
	Name *string `json:"name"`
}

func (s *Server) handleListCanvases(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.library.Canvases())
}

func (s *Server) handleCreateCanvas(w http.ResponseWriter, r *http.Request) {
	var req canvasRequest
	if err := decodeBody(w, r, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := ""
	if req.Name != nil {
		name = *req.Name
	}
	rec := s.library.Create(name)

	s.log.WithFields(logrus.Fields{
		"canvas_id": rec.ID,
		"name":      rec.Name,
	}).Info("Canvas created")

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, rec)
}

func (s *Server) handleGetCanvas(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.library.Get(chi.URLParam(r, "id"))
	if !ok {
		renderError(w, r, http.StatusNotFound, "Canvas not found")
		return
	}
	render.JSON(w, r, rec)
}

func (s *Server) handleUpdateCanvas(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req canvasRequest
	if err := decodeBody(w, r, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	var (
		rec canvas.Record
		ok  bool
	)
	if req.Name != nil {
		rec, ok = s.library.Rename(id, *req.Name)
	} else {
		rec, ok = s.library.Update(id, canvas.Patch{})
	}
	if !ok {
		renderError(w, r, http.StatusNotFound, "Canvas not found")
		return
	}

	s.log.WithField("canvas_id", id).Info("Canvas updated")
	render.JSON(w, r, rec)
}

func (s *Server) handleDeleteCanvas(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.library.Delete(id) {
		renderError(w, r, http.StatusNotFound, "Canvas not found")
		return
	}

	s.log.WithField("canvas_id", id).Info("Canvas deleted")
	w.WriteHeader(http.StatusNoContent)
}
