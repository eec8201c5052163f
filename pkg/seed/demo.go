// Package seed inserts demo data for local development.
package seed

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Demo inserts a demo technician, a handful of bookings and some
// inventory items. Safe to run twice, existing demo rows are skipped.
func Demo(app *pocketbase.PocketBase) error {
	techID, err := seedTechnician(app)
	if err != nil {
		return err
	}
	if err := seedBookings(app, techID); err != nil {
		return err
	}
	if err := seedInventory(app); err != nil {
		return err
	}
	fmt.Println("✅ Demo data ready")
	return nil
}

func seedTechnician(app *pocketbase.PocketBase) (string, error) {
	existing, _ := app.FindRecordsByFilter("technicians", "email='demo.tech@example.com'", "", 1, 0, nil)
	if len(existing) > 0 {
		fmt.Printf("Technician already exists: %s\n", existing[0].Id)
		return existing[0].Id, nil
	}

	collection, err := app.FindCollectionByNameOrId("technicians")
	if err != nil {
		return "", err
	}

	record := core.NewRecord(collection)
	record.Set("email", "demo.tech@example.com")
	record.SetPassword("demo1234demo")
	record.Set("name", "Demo Technician")
	record.Set("active", true)

	if err := app.Save(record); err != nil {
		return "", err
	}
	fmt.Printf("Created technician: %s\n", record.Id)
	return record.Id, nil
}

func seedBookings(app *pocketbase.PocketBase, techID string) error {
	existing, _ := app.FindRecordsByFilter("bookings", "customer_name='Demo Customer'", "", 1, 0, nil)
	if len(existing) > 0 {
		fmt.Printf("Bookings already exist: %s\n", existing[0].Id)
		return nil
	}

	collection, err := app.FindCollectionByNameOrId("bookings")
	if err != nil {
		return err
	}

	tomorrow := time.Now().Add(24 * time.Hour).Format("2006-01-02 09:00:00")

	rows := []map[string]interface{}{
		{
			"customer_name":  "Demo Customer",
			"customer_phone": "0400 000 001",
			"vehicle":        "2019 Toyota Corolla",
			"service_name":   "Logbook service",
			"status":         "confirmed",
			"booking_time":   tomorrow,
			"technician_id":  techID,
		},
		{
			"customer_name":  "Demo Customer",
			"customer_phone": "0400 000 002",
			"vehicle":        "2015 Ford Ranger",
			"service_name":   "Brake inspection",
			"status":         "pending",
			"booking_time":   tomorrow,
		},
	}

	for _, row := range rows {
		record := core.NewRecord(collection)
		for k, v := range row {
			record.Set(k, v)
		}
		if err := app.Save(record); err != nil {
			return err
		}
		fmt.Printf("Created booking: %s\n", record.Id)
	}
	return nil
}

func seedInventory(app *pocketbase.PocketBase) error {
	existing, _ := app.FindRecordsByFilter("inventory_items", "sku='DEMO-OIL-5W30'", "", 1, 0, nil)
	if len(existing) > 0 {
		fmt.Printf("Inventory already exists: %s\n", existing[0].Id)
		return nil
	}

	collection, err := app.FindCollectionByNameOrId("inventory_items")
	if err != nil {
		return err
	}

	rows := []map[string]interface{}{
		{"name": "Engine oil 5W-30", "sku": "DEMO-OIL-5W30", "category": "fluids", "price": 18.5, "stock_quantity": 40, "low_stock_threshold": 10, "unit": "litre", "is_active": true},
		{"name": "Oil filter Z432", "sku": "DEMO-FLT-Z432", "category": "filters", "price": 14.0, "stock_quantity": 12, "low_stock_threshold": 5, "unit": "each", "is_active": true},
		{"name": "Front brake pads", "sku": "DEMO-BRK-F01", "category": "brakes", "price": 65.0, "stock_quantity": 6, "low_stock_threshold": 4, "unit": "set", "is_active": true},
	}

	for _, row := range rows {
		record := core.NewRecord(collection)
		for k, v := range row {
			record.Set(k, v)
		}
		if err := app.Save(record); err != nil {
			return err
		}
		fmt.Printf("Created inventory item: %s\n", record.Id)
	}
	return nil
}
