package users

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"challengehub/internal/response"
	"challengehub/internal/services"
)

type Controller struct {
	users    *services.UserService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewController creates a new users controller
func NewController(users *services.UserService, validate *validator.Validate, logger *zap.Logger) *Controller {
	return &Controller{users: users, validate: validate, logger: logger}
}

type signupRequest struct {
	Username string `json:"username" validate:"required,min=2,max=30"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type signupResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Signup handles account registration
func (c *Controller) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	if err := c.validate.Struct(&req); err != nil {
		response.Error(w, r, services.NewValidationError(err.Error(), err))
		return
	}

	user, err := c.users.Signup(r.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.Created(w, r, &signupResponse{ID: user.ID, Username: user.Username})
}

// CheckUsername reports whether a username is still available.
func (c *Controller) CheckUsername(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		response.Error(w, r, services.NewValidationError("username query parameter is required", nil))
		return
	}

	taken, err := c.users.UsernameTaken(r.Context(), username)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.OK(w, r, map[string]bool{"available": !taken})
}
