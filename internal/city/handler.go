package city

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-coopconnect-go/internal/city/repo"
	"github.com/ovaphlow/pitchfork/service-coopconnect-go/pkg/utilities"
)

// Handler exposes the read-only city endpoints.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewService(repo.NewCityRepo(db)), logger: logger}
}

// List handles GET /city.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	cities, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, err, "list cities")
		return
	}
	utilities.WriteJSON(w, http.StatusOK, cities)
}

// Get handles GET /city/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cityID(w, r)
	if !ok {
		return
	}
	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, err, "get city")
		return
	}
	utilities.WriteJSON(w, http.StatusOK, c)
}

// MatchCost handles GET /city/{id}/{cost}.
func (h *Handler) MatchCost(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.cityID(w, r); !ok {
		return
	}
	target, err := strconv.ParseFloat(r.PathValue("cost"), 64)
	if err != nil {
		utilities.WriteError(w, http.StatusBadRequest, "cost of living must be numeric")
		return
	}
	a, err := h.svc.MatchCost(r.Context(), target)
	if err != nil {
		h.fail(w, err, "match cost of living")
		return
	}
	utilities.WriteJSON(w, http.StatusOK, a)
}

// MatchHybrid handles GET /city/{id}/hybrid/{proportion}. The proportion sits
// under its own "hybrid" segment because /city/{id}/{cost} already claims the
// two-segment pattern; the mux cannot tell a cost from a proportion by shape.
func (h *Handler) MatchHybrid(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.cityID(w, r); !ok {
		return
	}
	target, err := strconv.ParseFloat(r.PathValue("proportion"), 64)
	if err != nil {
		utilities.WriteError(w, http.StatusBadRequest, "target proportion must be between 0 and 1")
		return
	}
	res, err := h.svc.MatchHybrid(r.Context(), target)
	if err != nil {
		h.fail(w, err, "match hybrid proportion")
		return
	}
	utilities.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) cityID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utilities.WriteError(w, http.StatusBadRequest, "invalid city id")
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrNotFound):
		utilities.WriteError(w, http.StatusNotFound, "city not found")
	case errors.Is(err, ErrInvalidInput):
		utilities.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Errorw(op+" failed", "err", err)
		utilities.WriteError(w, http.StatusInternalServerError, op+" failed")
	}
}
