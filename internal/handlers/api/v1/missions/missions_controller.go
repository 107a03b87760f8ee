package missions

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
	missions *services.MissionService
	ai       *services.AIService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewController creates a new missions controller
func NewController(missions *services.MissionService, ai *services.AIService, validate *validator.Validate, logger *zap.Logger) *Controller {
	return &Controller{missions: missions, ai: ai, validate: validate, logger: logger}
}

type createMissionRequest struct {
	Content     string `json:"content" validate:"required,max=500"`
	Level       int    `json:"level" validate:"min=0,max=5"`
	IsPrivate   bool   `json:"is_private"`
	AIGenerated bool   `json:"ai_generated"`
}

// Create registers a new mission for the authenticated user
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	var req createMissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	if err := c.validate.Struct(&req); err != nil {
		response.Error(w, r, services.NewValidationError(err.Error(), err))
		return
	}

	mission, err := c.missions.Create(r.Context(), contextutils.GetUserID(r.Context()), services.CreateMissionInput{
		Content:     req.Content,
		Level:       req.Level,
		IsPrivate:   req.IsPrivate,
		AIGenerated: req.AIGenerated,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.Created(w, r, mission)
}

// Complete marks the mission as completed
func (c *Controller) Complete(w http.ResponseWriter, r *http.Request) {
	missionID, err := pathID(r, "missionID")
	if err != nil {
		response.Error(w, r, services.NewValidationError("invalid mission id", err))
		return
	}

	mission, err := c.missions.Complete(r.Context(), contextutils.GetUserID(r.Context()), missionID)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.OK(w, r, mission)
}

// ListMine returns the user's in-progress missions
func (c *Controller) ListMine(w http.ResponseWriter, r *http.Request) {
	c.listByStatus(w, r, models.MissionInProgress)
}

// ListCompleted returns the user's completed missions
func (c *Controller) ListCompleted(w http.ResponseWriter, r *http.Request) {
	c.listByStatus(w, r, models.MissionCompleted)
}

func (c *Controller) listByStatus(w http.ResponseWriter, r *http.Request, status models.MissionStatus) {
	missions, err := c.missions.ListMine(r.Context(), contextutils.GetUserID(r.Context()), status)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	if missions == nil {
		missions = []*models.Mission{}
	}
	response.OK(w, r, missions)
}

// ListPublic returns all non-private missions
func (c *Controller) ListPublic(w http.ResponseWriter, r *http.Request) {
	missions, err := c.missions.ListPublic(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	if missions == nil {
		missions = []*models.Mission{}
	}
	response.OK(w, r, missions)
}

// Suggest returns AI-generated mission proposals
func (c *Controller) Suggest(w http.ResponseWriter, r *http.Request) {
	suggestions, err := c.ai.SuggestMissions(r.Context(), contextutils.GetUserID(r.Context()))
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.OK(w, r, suggestions)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
