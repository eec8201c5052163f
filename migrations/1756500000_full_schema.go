package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		// Helper to add system fields if missing
		addSystemFields := func(c *core.Collection) {
			c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
			c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		}

		// ----------------------------------------------------
		// 1. TECHNICIANS (Auth Collection)
		// ----------------------------------------------------
		techs, err := app.FindCollectionByNameOrId("technicians")
		if err != nil {
			techs = core.NewAuthCollection("technicians")
			addSystemFields(techs)
			techs.ListRule = types.Pointer("")
			techs.ViewRule = types.Pointer("")

			techs.Fields.Add(&core.TextField{Name: "name", Required: true})
			techs.Fields.Add(&core.BoolField{Name: "active"})
			// Workshop account the technician belongs to
			techs.Fields.Add(&core.TextField{Name: "user_id"})
			techs.Fields.Add(&core.FileField{
				Name:      "avatar",
				MaxSelect: 1,
				MaxSize:   5242880,
			})

			techs.AddIndex("idx_techs_active", false, "active", "")

			if err := app.Save(techs); err != nil {
				return err
			}
		}

		// ----------------------------------------------------
		// 2. BOOKINGS (diary)
		// ----------------------------------------------------
		bookings := core.NewBaseCollection("bookings")
		addSystemFields(bookings)
		bookings.ListRule = types.Pointer("")
		bookings.ViewRule = types.Pointer("")

		bookings.Fields.Add(&core.TextField{Name: "customer_name", Required: true})
		bookings.Fields.Add(&core.TextField{Name: "customer_phone"})
		bookings.Fields.Add(&core.TextField{Name: "customer_email"})
		bookings.Fields.Add(&core.TextField{Name: "vehicle"})
		bookings.Fields.Add(&core.TextField{Name: "service_name"})
		bookings.Fields.Add(&core.TextField{Name: "notes"})
		bookings.Fields.Add(&core.TextField{Name: "booking_time"}) // YYYY-MM-DD HH:MM
		bookings.Fields.Add(&core.TextField{Name: "estimated_duration"})
		bookings.Fields.Add(&core.TextField{Name: "user_id"})

		bookings.Fields.Add(&core.SelectField{
			Name:      "status",
			Values:    []string{"pending", "confirmed", "completed", "cancelled"},
			MaxSelect: 1,
		})
		bookings.Fields.Add(&core.RelationField{
			Name:         "technician_id",
			CollectionId: techs.Id,
			MaxSelect:    1,
		})

		bookings.AddIndex("idx_bookings_tech", false, "technician_id", "")
		bookings.AddIndex("idx_bookings_time", false, "booking_time", "")
		bookings.AddIndex("idx_bookings_status", false, "status", "")

		if err := app.Save(bookings); err != nil {
			return err
		}

		// ----------------------------------------------------
		// 3. JOBS (technician work orders)
		// ----------------------------------------------------
		jobs := core.NewBaseCollection("jobs")
		addSystemFields(jobs)
		jobs.ListRule = types.Pointer("")
		jobs.ViewRule = types.Pointer("")

		jobs.Fields.Add(&core.TextField{Name: "title", Required: true})
		jobs.Fields.Add(&core.TextField{Name: "description"})
		jobs.Fields.Add(&core.TextField{Name: "customer_name"})
		jobs.Fields.Add(&core.TextField{Name: "vehicle"})
		jobs.Fields.Add(&core.TextField{Name: "estimated_time"})
		jobs.Fields.Add(&core.TextField{Name: "user_id"})
		jobs.Fields.Add(&core.DateField{Name: "assigned_at"})
		jobs.Fields.Add(&core.DateField{Name: "scheduled_for"})

		jobs.Fields.Add(&core.SelectField{
			Name:      "status",
			Values:    []string{"pending", "in_progress", "working", "completed", "cancelled"},
			MaxSelect: 1,
		})
		jobs.Fields.Add(&core.SelectField{
			Name:      "priority",
			Values:    []string{"low", "normal", "high", "urgent"},
			MaxSelect: 1,
		})
		jobs.Fields.Add(&core.RelationField{
			Name:         "technician_id",
			CollectionId: techs.Id,
			MaxSelect:    1,
		})
		jobs.Fields.Add(&core.RelationField{
			Name:         "booking_id",
			CollectionId: bookings.Id,
			MaxSelect:    1,
		})

		jobs.AddIndex("idx_jobs_tech_user", false, "technician_id,user_id", "")
		jobs.AddIndex("idx_jobs_assigned", false, "assigned_at", "")

		if err := app.Save(jobs); err != nil {
			return err
		}

		// ----------------------------------------------------
		// 4. TIME ENTRIES
		// ----------------------------------------------------
		entries := core.NewBaseCollection("time_entries")
		addSystemFields(entries)
		entries.Fields.Add(&core.RelationField{
			Name:         "job_id",
			CollectionId: jobs.Id,
			Required:     true,
			MaxSelect:    1,
		})
		entries.Fields.Add(&core.DateField{Name: "started_at"})
		entries.Fields.Add(&core.DateField{Name: "ended_at"})
		entries.Fields.Add(&core.NumberField{Name: "seconds"})

		entries.AddIndex("idx_time_entries_job", false, "job_id", "")

		if err := app.Save(entries); err != nil {
			return err
		}

		// ----------------------------------------------------
		// 5. JOB PHOTOS
		// ----------------------------------------------------
		photos := core.NewBaseCollection("job_photos")
		addSystemFields(photos)
		photos.Fields.Add(&core.RelationField{
			Name:         "job_id",
			CollectionId: jobs.Id,
			Required:     true,
			MaxSelect:    1,
		})
		photos.Fields.Add(&core.TextField{Name: "url", Required: true})
		photos.Fields.Add(&core.TextField{Name: "caption"})
		photos.Fields.Add(&core.DateField{Name: "uploaded_at"})

		photos.AddIndex("idx_job_photos_job", false, "job_id", "")

		if err := app.Save(photos); err != nil {
			return err
		}

		// ----------------------------------------------------
		// 6. PART REQUESTS
		// ----------------------------------------------------
		parts := core.NewBaseCollection("part_requests")
		addSystemFields(parts)
		parts.Fields.Add(&core.RelationField{
			Name:         "job_id",
			CollectionId: jobs.Id,
			Required:     true,
			MaxSelect:    1,
		})
		parts.Fields.Add(&core.TextField{Name: "name", Required: true})
		parts.Fields.Add(&core.NumberField{Name: "quantity"})
		parts.Fields.Add(&core.SelectField{
			Name:      "status",
			Values:    []string{"pending", "approved", "denied", "delivered"},
			MaxSelect: 1,
		})
		parts.Fields.Add(&core.DateField{Name: "requested_at"})

		parts.AddIndex("idx_part_requests_job", false, "job_id", "")
		parts.AddIndex("idx_part_requests_status", false, "status", "")

		if err := app.Save(parts); err != nil {
			return err
		}

		// ----------------------------------------------------
		// 7. TECH JOB CACHE (fallback snapshots)
		// ----------------------------------------------------
		cache := core.NewBaseCollection("tech_job_cache")
		addSystemFields(cache)
		cache.Fields.Add(&core.TextField{Name: "key", Required: true})
		cache.Fields.Add(&core.TextField{Name: "payload"}) // JSON-encoded job list

		cache.AddIndex("idx_tech_job_cache_key", true, "key", "")

		return app.Save(cache)
	}, func(app core.App) error {
		for _, name := range []string{
			"tech_job_cache", "part_requests", "job_photos",
			"time_entries", "jobs", "bookings", "technicians",
		} {
			if collection, err := app.FindCollectionByNameOrId(name); err == nil {
				app.Delete(collection)
			}
		}
		return nil
	})
}
