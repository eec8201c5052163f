package handlers

import (
	"github.com/pocketbase/pocketbase/core"

	"github.com/MicahMunyard/easyworkshophub-sub002/internal/service"
	"github.com/MicahMunyard/easyworkshophub-sub002/pkg/services"
)

// PublicHandler serves unauthenticated content: approved reviews and the
// help articles.
type PublicHandler struct {
	Reviews *service.ReviewService
	Help    *services.HelpService
}

func (h *PublicHandler) GetApprovedReviews(e *core.RequestEvent) error {
	reviews, err := h.Reviews.ApprovedReviews()
	if err != nil {
		return e.JSON(500, map[string]string{"error": "Could not load reviews"})
	}
	return e.JSON(200, map[string]interface{}{"reviews": reviews})
}

func (h *PublicHandler) GetHelpArticles(e *core.RequestEvent) error {
	topics, err := h.Help.ArticlesByTopic()
	if err != nil {
		return e.JSON(500, map[string]string{"error": "Could not load help articles"})
	}
	return e.JSON(200, map[string]interface{}{"topics": topics})
}
