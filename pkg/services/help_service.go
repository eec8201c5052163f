package services

import (
	"github.com/pocketbase/pocketbase/core"

	domain "github.com/MicahMunyard/easyworkshophub-sub002/internal/core"
)

// HelpService serves the onboarding help content grouped by topic.
type HelpService struct {
	app core.App
}

func NewHelpService(app core.App) *HelpService {
	return &HelpService{app: app}
}

func (s *HelpService) toArticle(record *core.Record) domain.HelpArticle {
	return domain.HelpArticle{
		ID:        record.Id,
		Topic:     record.GetString("topic"),
		Title:     record.GetString("title"),
		Body:      record.GetString("body"),
		SortOrder: int(record.GetFloat("sort_order")),
	}
}

// ArticlesByTopic returns all help articles keyed by topic, ordered for
// display within each topic.
func (s *HelpService) ArticlesByTopic() (map[string][]domain.HelpArticle, error) {
	records, err := s.app.FindRecordsByFilter("help_articles", "", "topic, sort_order", 500, 0, nil)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]domain.HelpArticle)
	for _, record := range records {
		article := s.toArticle(record)
		grouped[article.Topic] = append(grouped[article.Topic], article)
	}
	return grouped, nil
}
