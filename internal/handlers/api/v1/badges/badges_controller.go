package badges

import (
	"net/http"

	"go.uber.org/zap"

	"challengehub/internal/contextutils"
	"challengehub/internal/models"
	"challengehub/internal/response"
	"challengehub/internal/services"
)

type Controller struct {
	badges *services.BadgeService
	logger *zap.Logger
}

// NewController creates a new badges controller
func NewController(badges *services.BadgeService, logger *zap.Logger) *Controller {
	return &Controller{badges: badges, logger: logger}
}

// ListOwned returns the badges the user has earned
func (c *Controller) ListOwned(w http.ResponseWriter, r *http.Request) {
	owned, err := c.badges.ListOwned(r.Context(), contextutils.GetUserID(r.Context()))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	if owned == nil {
		owned = []*models.OwnedBadge{}
	}
	response.OK(w, r, owned)
}

// ListProgress returns every badge with the user's progress toward it
func (c *Controller) ListProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := c.badges.ListProgress(r.Context(), contextutils.GetUserID(r.Context()))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, r, progress)
}
