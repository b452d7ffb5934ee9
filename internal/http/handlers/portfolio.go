package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/EleftheriaBatsou/revamp-personal-website/internal/portfolio/core"
)

const maxExtractBodyBytes = 2 << 20

type extractRequest struct {
	Document string `json:"document" validate:"required,max=1048576"`
}

type aboutResponse struct {
	Intro      *core.IntroRecord    `json:"intro,omitempty"`
	Highlights []core.HighlightItem `json:"highlights"`
}

type videosResponse struct {
	Items    []core.VideoEntry `json:"items"`
	Found    bool              `json:"found"`
	Strategy string            `json:"strategy,omitempty"`
}

type articlesResponse struct {
	Items []core.Article `json:"items"`
}

type speakingResponse struct {
	Items    []core.SpeakingEntry `json:"items"`
	Resolved int                  `json:"resolved"`
}

type extractResponse struct {
	core.Extraction
	SpeakingResolved int `json:"speakingResolved"`
}

func (h *Handler) PortfolioSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	snap := h.portfolio.Snapshot(ctx)
	snap.Highlights = nonNil(snap.Highlights)
	snap.Videos = nonNil(snap.Videos)
	snap.Articles = nonNil(snap.Articles)
	snap.Speaking = nonNil(snap.Speaking)
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	profile := h.portfolio.Profile(ctx)
	if profile == nil {
		writeError(w, http.StatusNotFound, "profile unavailable")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) About(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	intro, highlights := h.portfolio.About(ctx)
	writeJSON(w, http.StatusOK, aboutResponse{Intro: intro, Highlights: nonNil(highlights)})
}

func (h *Handler) Videos(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	videos, strategy := h.portfolio.Videos(ctx)
	writeJSON(w, http.StatusOK, videosResponse{Items: nonNil(videos), Found: len(videos) > 0, Strategy: strategy})
}

func (h *Handler) Articles(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	writeJSON(w, http.StatusOK, articlesResponse{Items: nonNil(h.portfolio.Articles(ctx))})
}

func (h *Handler) Speaking(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	talks, resolved := h.portfolio.Speaking(ctx)
	writeJSON(w, http.StatusOK, speakingResponse{Items: nonNil(talks), Resolved: resolved})
}

// Extract runs the README extractors over a posted document.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)

	if ok, retry := h.extractLimiter.Reserve(clientKey(r)); !ok {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
		writeError(w, http.StatusTooManyRequests, "rate limited")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxExtractBodyBytes)
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "document too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "document is required")
		return
	}

	result := h.portfolio.Extract(req.Document)
	result.Highlights = nonNil(result.Highlights)
	result.Videos = nonNil(result.Videos)
	result.Speaking = nonNil(result.Speaking)
	logger.Info("action", "action", "extract", "status", "ok",
		"bytes", len(req.Document),
		"videos", len(result.Videos),
		"speaking", len(result.Speaking),
	)
	writeJSON(w, http.StatusOK, extractResponse{Extraction: result, SpeakingResolved: result.SpeakingResolved()})
}

func clientKey(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
