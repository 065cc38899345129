package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/piwi3910/PageFit/internal/editor"
	"github.com/piwi3910/PageFit/internal/engine"
	"github.com/piwi3910/PageFit/internal/export"
	"github.com/piwi3910/PageFit/internal/model"
)

// maxBodyBytes limits request bodies.
const maxBodyBytes = 8 << 20

// maxImages limits the images of one layout request.
const maxImages = 2000

const errInvalidRequestBody = "invalid request body"

type layoutRequest struct {
	Images    []model.Image        `json:"images"`
	Oversize  model.OversizePolicy `json:"oversize,omitempty"`
	Algorithm model.Algorithm      `json:"algorithm,omitempty"`
	// PDF only
	ManifestQR *bool `json:"manifest_qr,omitempty"`
	PrintArea  *bool `json:"print_area,omitempty"`
}

type layoutResponse struct {
	Layout     model.Layout `json:"layout"`
	Strategy   string       `json:"strategy,omitempty"`
	Score      float64      `json:"score"`
	Pages      int          `json:"pages"`
	Efficiency float64      `json:"efficiency"`
}

type moveRequest struct {
	Layout model.Layout `json:"layout"`
	Page   int          `json:"page"`
	ID     string       `json:"id"`
	X      float64      `json:"x"`
	Y      float64      `json:"y"`
}

type rotateRequest struct {
	Layout model.Layout `json:"layout"`
	Page   int          `json:"page"`
	ID     string       `json:"id"`
}

// respondJSON sends a JSON response. The status line is already out when
// encoding fails, so the error is only logged.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Debug("failed to write response", "status", status, "err", err)
	}
}

// respondError sends an error response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return false
	}
	return true
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) strategies(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string][]string{"strategies": s.options.Catalog.Names()})
}

// engineFor applies the request overrides to the server options.
func (s *Server) engineFor(req layoutRequest) (*engine.Engine, error) {
	opts := s.options
	switch req.Oversize {
	case "":
	case model.OversizeForce, model.OversizeReject:
		opts.Oversize = req.Oversize
	default:
		return nil, fmt.Errorf("unknown oversize policy %q", req.Oversize)
	}
	switch req.Algorithm {
	case "":
	case model.AlgorithmCatalog, model.AlgorithmGenetic:
		opts.Algorithm = req.Algorithm
	default:
		return nil, fmt.Errorf("unknown algorithm %q", req.Algorithm)
	}
	return engine.New(opts, s.logger), nil
}

// compute validates the request and runs the search. It writes the error
// response itself and reports false on failure.
func (s *Server) compute(w http.ResponseWriter, r *http.Request) (engine.StrategyResult, layoutRequest, bool) {
	var req layoutRequest
	if !s.decode(w, r, &req) {
		return engine.StrategyResult{}, req, false
	}
	if len(req.Images) > maxImages {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("too many images: %d, limit is %d", len(req.Images), maxImages))
		return engine.StrategyResult{}, req, false
	}
	for i := range req.Images {
		req.Images[i] = model.Normalize(req.Images[i])
		if req.Images[i].ID == "" {
			req.Images[i].ID = uuid.New().String()[:8]
		}
		if err := model.Validate(req.Images[i]); err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return engine.StrategyResult{}, req, false
		}
	}

	eng, err := s.engineFor(req)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return engine.StrategyResult{}, req, false
	}

	result, err := eng.Search(r.Context(), req.Images)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			status = http.StatusServiceUnavailable
		}
		s.respondError(w, status, err.Error())
		return engine.StrategyResult{}, req, false
	}
	return result, req, true
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	result, _, ok := s.compute(w, r)
	if !ok {
		return
	}
	resp := layoutResponse{
		Layout:     result.Layout,
		Score:      result.Score,
		Pages:      len(result.Layout.Pages),
		Efficiency: result.Layout.TotalEfficiency(s.options.Page),
	}
	if len(result.Layout.Pages) > 0 {
		resp.Strategy = result.Strategy.String()
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) layoutPDF(w http.ResponseWriter, r *http.Request) {
	result, req, ok := s.compute(w, r)
	if !ok {
		return
	}
	opts := export.PDFOptions{
		Spec:            s.options.Page,
		EmbedManifestQR: s.config.EmbedManifestQR,
		DrawPrintArea:   s.config.DrawPrintArea,
	}
	if req.ManifestQR != nil {
		opts.EmbedManifestQR = *req.ManifestQR
	}
	if req.PrintArea != nil {
		opts.DrawPrintArea = *req.PrintArea
	}

	var buf bytes.Buffer
	if err := export.WritePDF(&buf, result.Layout, opts); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, export.ErrEmptyLayout) {
			status = http.StatusBadRequest
		}
		s.respondError(w, status, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="layout.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) layoutReport(w http.ResponseWriter, r *http.Request) {
	result, _, ok := s.compute(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteReport(&buf, result.Layout, s.options.Page); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="layout.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !s.decode(w, r, &req) {
		return
	}
	layout, err := s.guard.Move(req.Layout, req.Page, strings.TrimSpace(req.ID), req.X, req.Y)
	s.respondEdit(w, layout, err)
}

func (s *Server) rotate(w http.ResponseWriter, r *http.Request) {
	var req rotateRequest
	if !s.decode(w, r, &req) {
		return
	}
	layout, err := s.guard.Rotate(req.Layout, req.Page, strings.TrimSpace(req.ID))
	s.respondEdit(w, layout, err)
}

func (s *Server) respondEdit(w http.ResponseWriter, layout model.Layout, err error) {
	switch {
	case err == nil:
		s.respondJSON(w, http.StatusOK, map[string]model.Layout{"layout": layout})
	case errors.Is(err, editor.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, editor.ErrExceedsPrintArea), errors.Is(err, editor.ErrOverlaps):
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}
