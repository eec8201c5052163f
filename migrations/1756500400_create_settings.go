package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		if _, err := app.FindCollectionByNameOrId("settings"); err == nil {
			return nil
		}

		settings := core.NewBaseCollection("settings")
		settings.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		settings.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})

		settings.Fields.Add(&core.TextField{Name: "workshop_name"})
		settings.Fields.Add(&core.TextField{Name: "contact_email"})
		settings.Fields.Add(&core.TextField{Name: "contact_phone"})
		settings.Fields.Add(&core.TextField{Name: "intake_secret"})
		settings.Fields.Add(&core.BoolField{Name: "low_stock_alert"})

		if err := app.Save(settings); err != nil {
			return err
		}

		// Seed the single settings row
		rec := core.NewRecord(settings)
		rec.Set("workshop_name", "EasyWorkshopHub")
		rec.Set("low_stock_alert", true)
		return app.Save(rec)
	}, func(app core.App) error {
		if collection, err := app.FindCollectionByNameOrId("settings"); err == nil {
			return app.Delete(collection)
		}
		return nil
	})
}
