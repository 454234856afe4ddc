package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/jiten/internal/models"
	"github.com/hyperjump/jiten/internal/storage"
)

func (s *Server) handleSuggestion(w http.ResponseWriter, r *http.Request) {
	var req models.SuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("suggestion request",
		zap.String("request_id", RequestID(r.Context())),
		zap.String("input", req.Input),
		zap.String("lang", req.Lang))
	resp, err := s.suggest.Suggest(r.Context(), req)
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	target, ok := models.ParseSearchTarget(chi.URLParam(r, "target"))
	if !ok {
		s.respondError(w, r, http.StatusNotFound, "unknown search target")
		return
	}
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if s.config != nil {
		if req.ShowEnglish == nil {
			show := s.config.Search.ShowEnglishOrDefault()
			req.ShowEnglish = &show
		}
		if req.PageSize == 0 {
			req.PageSize = s.config.Search.PageSize
		}
	}
	s.logger.Debug("search request",
		zap.String("request_id", RequestID(r.Context())),
		zap.Stringer("target", target),
		zap.String("query", req.Query),
		zap.Int("page", req.Page))
	resp, err := s.search.Search(r.Context(), target, req)
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

type kanjiResponse struct {
	Kanji        *models.Kanji  `json:"kanji"`
	KunCompounds []*models.Word `json:"kun_compounds"`
}

func (s *Server) handleKanji(w http.ResponseWriter, r *http.Request) {
	literal, err := url.PathUnescape(chi.URLParam(r, "literal"))
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid literal")
		return
	}
	ctx := r.Context()
	k, err := s.kanji.FindByLiteral(ctx, literal)
	if err != nil {
		s.respondFailure(w, r, err)
		return
	}
	seqs := k.KunDicts
	if len(seqs) == 0 {
		if seqs, err = s.kanji.KunCompounds(ctx, k); err != nil {
			s.respondFailure(w, r, err)
			return
		}
	}
	resp := kanjiResponse{Kanji: k, KunCompounds: make([]*models.Word, 0, len(seqs))}
	for _, seq := range seqs {
		word, err := s.storage.WordBySequence(ctx, seq)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			s.respondFailure(w, r, err)
			return
		}
		resp.KunCompounds = append(resp.KunCompounds, word)
	}
	s.respondJSON(w, http.StatusOK, resp)
}

type healthResponse struct {
	Status         string             `json:"status"`
	Records        storage.Stats      `json:"records"`
	Footprint      *storage.Footprint `json:"footprint,omitempty"`
	DiskUsageBytes int64              `json:"disk_usage_bytes,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := s.storage.Stats(r.Context())
	if err != nil {
		s.logger.Error("health: stats failed", zap.Error(err))
		s.respondError(w, r, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	resp := healthResponse{Status: "ok", Records: stats}
	if s.config != nil {
		fp, err := storage.MeasureFootprint(
			s.config.Storage.DatabasePath,
			s.config.Storage.IndexDir,
			s.config.Storage.SuggestionDir,
		)
		if err == nil {
			resp.Footprint = &fp
			resp.DiskUsageBytes = fp.Total()
		} else {
			s.logger.Warn("health: measure footprint failed", zap.Error(err))
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// statusFor maps an error category to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrTimeout):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		s.respondError(w, r, status, "internal error")
		return
	}
	s.respondError(w, r, status, err.Error())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.respondJSON(w, status, map[string]string{
		"error":      message,
		"request_id": RequestID(r.Context()),
	})
}
