package employer

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-coopconnect-go/internal/employer/entity"
	"github.com/ovaphlow/pitchfork/service-coopconnect-go/pkg/utilities"
)

// NoZipCodesMessage is the plain-text body returned when a city has no zip codes.
const NoZipCodesMessage = "No zipcodes for selected city"

// Handler exposes the employer endpoints.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewService(db), logger: logger}
}

// StudentPopulation handles GET /cities/{city}/student_population. An integer
// segment is a city id and yields the aggregate; anything else is a city name
// and yields one row per zip code.
func (h *Handler) StudentPopulation(w http.ResponseWriter, r *http.Request) {
	seg := r.PathValue("city")
	if id, err := strconv.ParseInt(seg, 10, 64); err == nil {
		pop, err := h.svc.StudentPopulationByCityID(r.Context(), id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				utilities.WriteError(w, http.StatusNotFound, "City not found or no student population data")
				return
			}
			h.fail(w, err, "student population")
			return
		}
		utilities.WriteJSON(w, http.StatusOK, pop)
		return
	}

	rows, err := h.svc.StudentPopulationByCityName(r.Context(), seg)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			utilities.WriteText(w, http.StatusNotFound, NoZipCodesMessage)
			return
		}
		h.fail(w, err, "student population by zip")
		return
	}
	utilities.WriteJSON(w, http.StatusOK, rows)
}

// ZipCodes handles GET /zipcodes.
func (h *Handler) ZipCodes(w http.ResponseWriter, r *http.Request) {
	zips, err := h.svc.ZipCodes(r.Context())
	if err != nil {
		h.fail(w, err, "list zip codes")
		return
	}
	utilities.WriteJSON(w, http.StatusOK, zips)
}

// PostingsByUser handles GET /users/{id}/job_postings.
func (h *Handler) PostingsByUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utilities.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	ps, err := h.svc.PostingsByUserID(r.Context(), id)
	if err != nil {
		h.fail(w, err, "list job postings")
		return
	}
	utilities.WriteJSON(w, http.StatusOK, ps)
}

// PostingsByEmail handles GET /users/email/{email}/job_postings.
func (h *Handler) PostingsByEmail(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.PostingsByEmail(r.Context(), r.PathValue("email"))
	if err != nil {
		h.fail(w, err, "list job postings by email")
		return
	}
	utilities.WriteJSON(w, http.StatusOK, ps)
}

// CreatePosting handles POST /job_postings.
func (h *Handler) CreatePosting(w http.ResponseWriter, r *http.Request) {
	var req entity.CreateJobPostingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid job posting payload", "err", err)
		utilities.WriteError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.svc.CreatePosting(r.Context(), &req); err != nil {
		h.fail(w, err, "create job posting")
		return
	}
	utilities.WriteMessage(w, http.StatusCreated, "Job posting created successfully")
}

// UpdatePosting handles PUT /job_postings/{id}.
func (h *Handler) UpdatePosting(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}
	var req entity.UpdateJobPostingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid job posting payload", "err", err)
		utilities.WriteError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.svc.UpdatePosting(r.Context(), id, &req); err != nil {
		h.fail(w, err, "update job posting")
		return
	}
	utilities.WriteMessage(w, http.StatusOK, "Job posting updated successfully")
}

// DeletePosting handles DELETE /job_postings/{id}.
func (h *Handler) DeletePosting(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeletePosting(r.Context(), id); err != nil {
		h.fail(w, err, "delete job posting")
		return
	}
	utilities.WriteMessage(w, http.StatusOK, "Job posting deleted successfully")
}

// WageHybrid handles GET /cities/{name}/wage_hybrid.
func (h *Handler) WageHybrid(w http.ResponseWriter, r *http.Request) {
	wh, err := h.svc.WageHybrid(r.Context(), r.PathValue("name"))
	if err != nil {
		h.fail(w, err, "wage and hybrid lookup")
		return
	}
	utilities.WriteJSON(w, http.StatusOK, wh)
}

func (h *Handler) postID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utilities.WriteError(w, http.StatusBadRequest, "invalid job posting id")
		return 0, false
	}
	return id, true
}

// fail maps service errors to status codes.
func (h *Handler) fail(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		utilities.WriteError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, ErrNotFound):
		utilities.WriteError(w, http.StatusNotFound, "not found")
	case errors.Is(err, ErrNoFields):
		utilities.WriteError(w, http.StatusBadRequest, "no fields to update")
	case errors.Is(err, ErrInvalidInput):
		utilities.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Errorw(op+" failed", "err", err)
		utilities.WriteError(w, http.StatusInternalServerError, op+" failed")
	}
}
