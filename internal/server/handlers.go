package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/founderhub/founderhub/internal/ai"
	"github.com/founderhub/founderhub/internal/founder"
	"github.com/founderhub/founderhub/internal/store"
)

// maxImageBytes caps profile image uploads.
const maxImageBytes = 5 << 20

type askRequest struct {
	Query            string       `json:"query"`
	FounderID        string       `json:"founder_id"`
	PreviousMessages []ai.Message `json:"previous_messages"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" || req.FounderID == "" {
		s.respondError(w, http.StatusBadRequest, "query and founder_id are required")
		return
	}

	current, err := s.store.GetByID(r.Context(), req.FounderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "founder not found")
			return
		}
		s.logger.Error("loading current founder", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Fresh roster snapshot per query; the assistant holds no state between
	// calls.
	all, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("loading founder roster", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := s.assistant.Ask(r.Context(), req.Query, &ai.Context{
		CurrentFounder:   current,
		AllFounders:      all,
		PreviousMessages: req.PreviousMessages,
	})

	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateFounder(w http.ResponseWriter, r *http.Request) {
	var f founder.Founder
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if f.Name == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if (f.Latitude == nil) != (f.Longitude == nil) {
		s.respondError(w, http.StatusBadRequest, "latitude and longitude must both be set or both be absent")
		return
	}

	f.ID = ""
	if err := s.store.Create(r.Context(), &f); err != nil {
		s.logger.Error("creating founder", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.directory.Add(&f); err != nil {
		s.logger.Warn("indexing founder failed", zap.String("founder_id", f.ID), zap.Error(err))
	}

	s.respondJSON(w, http.StatusCreated, &f)
}

func (s *Server) handleListFounders(w http.ResponseWriter, r *http.Request) {
	all, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("listing founders", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, all)
}

func (s *Server) handleGetFounder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f, err := s.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "founder not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, f)
}

func (s *Server) handleUpdateFounder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var f founder.Founder
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if (f.Latitude == nil) != (f.Longitude == nil) {
		s.respondError(w, http.StatusBadRequest, "latitude and longitude must both be set or both be absent")
		return
	}

	f.ID = id
	if err := s.store.Update(r.Context(), &f); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "founder not found")
			return
		}
		s.logger.Error("updating founder", zap.String("founder_id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.directory.Add(&f); err != nil {
		s.logger.Warn("re-indexing founder failed", zap.String("founder_id", id), zap.Error(err))
	}

	s.respondJSON(w, http.StatusOK, &f)
}

func (s *Server) handleDeleteFounder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "founder not found")
			return
		}
		s.logger.Error("deleting founder", zap.String("founder_id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.directory.Delete(id); err != nil {
		s.logger.Warn("removing founder from index failed", zap.String("founder_id", id), zap.Error(err))
	}

	w.WriteHeader(http.StatusNoContent)
}

type sendMessageRequest struct {
	SenderID string `json:"sender_id"`
	Body     string `json:"body"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	recipientID := chi.URLParam(r, "id")

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SenderID == "" || req.Body == "" {
		s.respondError(w, http.StatusBadRequest, "sender_id and body are required")
		return
	}

	if _, err := s.store.GetByID(r.Context(), recipientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "founder not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if _, err := s.store.GetByID(r.Context(), req.SenderID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.respondError(w, http.StatusBadRequest, "sender not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	m := &founder.Message{
		SenderID:    req.SenderID,
		RecipientID: recipientID,
		Body:        req.Body,
	}
	if err := s.store.CreateMessage(r.Context(), m); err != nil {
		s.logger.Error("creating message", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusCreated, m)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := s.store.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "founder not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	messages, err := s.store.ListMessages(r.Context(), id, r.URL.Query().Get("with"))
	if err != nil {
		s.logger.Error("listing messages", zap.String("founder_id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (s *Server) handleSearchFounders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.respondError(w, http.StatusBadRequest, "q parameter is required")
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	hits, err := s.directory.Search(query, limit)
	if err != nil {
		s.logger.Error("founder search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"hits": hits})
}

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	if s.blobs == nil {
		s.respondError(w, http.StatusServiceUnavailable, "blob storage is not configured")
		return
	}

	id := chi.URLParam(r, "id")
	f, err := s.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "founder not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	image, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImageBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("image exceeds the %d byte limit", int64(maxImageBytes)))
			return
		}
		s.respondError(w, http.StatusBadRequest, "reading image body")
		return
	}

	key := fmt.Sprintf("profiles/%s", f.ID)
	url, err := s.blobs.Upload(r.Context(), key, contentType, bytes.NewReader(image))
	if err != nil {
		s.logger.Error("uploading profile image", zap.String("founder_id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	f.ProfileImageURL = url
	if err := s.store.Update(r.Context(), f); err != nil {
		s.logger.Error("saving profile image reference", zap.String("founder_id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"profile_image_url": url})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encoding response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
