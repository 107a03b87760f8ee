package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"challengehub/internal/response"
	"challengehub/internal/services"
)

type Controller struct {
	auth     *services.AuthService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewController creates a new auth controller
func NewController(auth *services.AuthService, validate *validator.Validate, logger *zap.Logger) *Controller {
	return &Controller{auth: auth, validate: validate, logger: logger}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Login exchanges credentials for a token pair
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	if err := c.validate.Struct(&req); err != nil {
		response.Error(w, r, services.NewValidationError(err.Error(), err))
		return
	}

	pair, err := c.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.OK(w, r, pair)
}

// Refresh rotates a refresh token into a new token pair
func (c *Controller) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	if err := c.validate.Struct(&req); err != nil {
		response.Error(w, r, services.NewValidationError(err.Error(), err))
		return
	}

	pair, err := c.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.OK(w, r, pair)
}

// Logout revokes the refresh token
func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	if err := c.auth.Logout(r.Context(), req.RefreshToken); err != nil {
		response.Error(w, r, err)
		return
	}

	response.OK(w, r, map[string]string{"status": "logged out"})
}
