package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		if _, err := app.FindCollectionByNameOrId("reviews"); err == nil {
			return nil
		}

		bookings, err := app.FindCollectionByNameOrId("bookings")
		if err != nil {
			return err
		}

		reviews := core.NewBaseCollection("reviews")
		reviews.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		reviews.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		reviews.ListRule = types.Pointer("")
		reviews.ViewRule = types.Pointer("")
		reviews.CreateRule = types.Pointer("")

		reviews.Fields.Add(&core.TextField{Name: "author", Required: true})
		reviews.Fields.Add(&core.NumberField{Name: "rating", Required: true})
		reviews.Fields.Add(&core.TextField{Name: "content"})
		reviews.Fields.Add(&core.TextField{Name: "reply"})
		reviews.Fields.Add(&core.SelectField{
			Name:      "status",
			Values:    []string{"pending", "approved", "rejected"},
			MaxSelect: 1,
		})
		reviews.Fields.Add(&core.RelationField{
			Name:         "booking_id",
			CollectionId: bookings.Id,
			MaxSelect:    1,
		})

		reviews.AddIndex("idx_reviews_status", false, "status", "")

		return app.Save(reviews)
	}, func(app core.App) error {
		if collection, err := app.FindCollectionByNameOrId("reviews"); err == nil {
			return app.Delete(collection)
		}
		return nil
	})
}
