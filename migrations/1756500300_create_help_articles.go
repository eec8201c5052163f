package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		if _, err := app.FindCollectionByNameOrId("help_articles"); err == nil {
			return nil
		}

		articles := core.NewBaseCollection("help_articles")
		articles.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		articles.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		articles.ListRule = types.Pointer("")
		articles.ViewRule = types.Pointer("")

		articles.Fields.Add(&core.TextField{Name: "topic", Required: true})
		articles.Fields.Add(&core.TextField{Name: "title", Required: true})
		articles.Fields.Add(&core.TextField{Name: "body"})
		articles.Fields.Add(&core.NumberField{Name: "sort_order"})

		articles.AddIndex("idx_help_topic", false, "topic", "")

		if err := app.Save(articles); err != nil {
			return err
		}

		// Seed the starter articles
		seed := []map[string]interface{}{
			{"topic": "getting-started", "title": "Setting up your diary", "body": "Open the diary tab to see today's bookings. Use the plus button to add a walk-in.", "sort_order": 1},
			{"topic": "getting-started", "title": "Adding technicians", "body": "Each technician gets their own login. Create them under Settings > Team.", "sort_order": 2},
			{"topic": "mobile-app", "title": "Working offline", "body": "Status updates, time logs, photos and parts requests made without signal are queued on the device and sent automatically when you are back online.", "sort_order": 1},
			{"topic": "mobile-app", "title": "Logging time on a job", "body": "Tap the timer on a job card to start tracking. Starting a timer on another job stops the first one.", "sort_order": 2},
			{"topic": "parts", "title": "Requesting parts from the floor", "body": "Technicians can request parts from the job screen. Requests appear in the back office for approval.", "sort_order": 1},
		}
		for _, row := range seed {
			rec := core.NewRecord(articles)
			for k, v := range row {
				rec.Set(k, v)
			}
			if err := app.Save(rec); err != nil {
				return err
			}
		}

		return nil
	}, func(app core.App) error {
		if collection, err := app.FindCollectionByNameOrId("help_articles"); err == nil {
			return app.Delete(collection)
		}
		return nil
	})
}
