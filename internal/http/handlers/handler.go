package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/EleftheriaBatsou/revamp-personal-website/internal/portfolio/core"
	"github.com/EleftheriaBatsou/revamp-personal-website/internal/rate"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// Portfolio is the content service the handlers read from.
type Portfolio interface {
	Snapshot(ctx context.Context) core.Snapshot
	Extract(doc string) core.Extraction
	Profile(ctx context.Context) *core.Profile
	About(ctx context.Context) (*core.IntroRecord, []core.HighlightItem)
	Videos(ctx context.Context) ([]core.VideoEntry, string)
	Articles(ctx context.Context) []core.Article
	Speaking(ctx context.Context) ([]core.SpeakingEntry, int)
}

type Handler struct {
	portfolio      Portfolio
	logger         *slog.Logger
	validator      *validator.Validate
	extractLimiter *rate.WindowLimiter
	timeout        time.Duration
}

// New builds the handlers. extractPerMinute bounds POST /api/extract per
// client address.
func New(portfolio Portfolio, extractPerMinute int, timeout time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Handler{
		portfolio:      portfolio,
		logger:         logger,
		validator:      validator.New(),
		extractLimiter: rate.NewWindowLimiter(extractPerMinute, time.Minute),
		timeout:        timeout,
	}
}

func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.timeout)
}

func (h *Handler) loggerForRequest(r *http.Request) *slog.Logger {
	logger := h.logger
	if logger == nil {
		return slog.Default()
	}
	if reqID := chimw.GetReqID(r.Context()); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	return logger
}
