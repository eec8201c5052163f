package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		if _, err := app.FindCollectionByNameOrId("inventory_items"); err == nil {
			return nil
		}

		jobs, err := app.FindCollectionByNameOrId("jobs")
		if err != nil {
			return err
		}

		items := core.NewBaseCollection("inventory_items")
		items.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		items.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		items.ListRule = types.Pointer("")
		items.ViewRule = types.Pointer("")

		items.Fields.Add(&core.TextField{Name: "name", Required: true})
		items.Fields.Add(&core.TextField{Name: "sku", Required: true})
		items.Fields.Add(&core.TextField{Name: "category"})
		items.Fields.Add(&core.NumberField{Name: "price"})
		items.Fields.Add(&core.NumberField{Name: "stock_quantity"})
		items.Fields.Add(&core.NumberField{Name: "low_stock_threshold"})
		items.Fields.Add(&core.TextField{Name: "unit"})
		items.Fields.Add(&core.BoolField{Name: "is_active"})

		items.AddIndex("idx_inventory_sku", true, "sku", "")
		items.AddIndex("idx_inventory_active", false, "is_active", "")

		if err := app.Save(items); err != nil {
			return err
		}

		// Parts consumed per job, price frozen at usage time
		jobParts := core.NewBaseCollection("job_parts")
		jobParts.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		jobParts.Fields.Add(&core.RelationField{
			Name:         "job_id",
			CollectionId: jobs.Id,
			Required:     true,
			MaxSelect:    1,
		})
		jobParts.Fields.Add(&core.RelationField{
			Name:         "item_id",
			CollectionId: items.Id,
			Required:     true,
			MaxSelect:    1,
		})
		jobParts.Fields.Add(&core.NumberField{Name: "quantity"})
		jobParts.Fields.Add(&core.NumberField{Name: "price_per_unit"})
		jobParts.Fields.Add(&core.NumberField{Name: "total"})

		jobParts.AddIndex("idx_job_parts_job", false, "job_id", "")

		return app.Save(jobParts)
	}, func(app core.App) error {
		for _, name := range []string{"job_parts", "inventory_items"} {
			if collection, err := app.FindCollectionByNameOrId(name); err == nil {
				app.Delete(collection)
			}
		}
		return nil
	})
}
