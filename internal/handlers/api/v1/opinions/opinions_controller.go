package opinions

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"challengehub/internal/contextutils"
	"challengehub/internal/models"
	"challengehub/internal/response"
	"challengehub/internal/services"
)

type Controller struct {
	opinions *services.OpinionService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewController creates a new opinions controller
func NewController(opinions *services.OpinionService, validate *validator.Validate, logger *zap.Logger) *Controller {
	return &Controller{opinions: opinions, validate: validate, logger: logger}
}

type createOpinionRequest struct {
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=EASY MEDIUM HARD"`
	Impression string `json:"impression" validate:"required,max=1000"`
	Reaction   string `json:"reaction" validate:"max=200"`
}

// Create records a reflection on a completed mission
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	missionID, err := strconv.ParseInt(chi.URLParam(r, "missionID"), 10, 64)
	if err != nil {
		response.Error(w, r, services.NewValidationError("invalid mission id", err))
		return
	}

	var req createOpinionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	if err := c.validate.Struct(&req); err != nil {
		response.Error(w, r, services.NewValidationError(err.Error(), err))
		return
	}

	opinion, err := c.opinions.Create(r.Context(), contextutils.GetUserID(r.Context()), services.CreateOpinionInput{
		MissionID:  missionID,
		Difficulty: req.Difficulty,
		Impression: req.Impression,
		Reaction:   req.Reaction,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.Created(w, r, opinion)
}

// ListByMission returns the reflections on one mission
func (c *Controller) ListByMission(w http.ResponseWriter, r *http.Request) {
	missionID, err := strconv.ParseInt(chi.URLParam(r, "missionID"), 10, 64)
	if err != nil {
		response.Error(w, r, services.NewValidationError("invalid mission id", err))
		return
	}

	opinions, err := c.opinions.ListByMission(r.Context(), contextutils.GetUserID(r.Context()), missionID)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	if opinions == nil {
		opinions = []*models.Opinion{}
	}
	response.OK(w, r, opinions)
}
