package repository

import (
	"log"
	"os"

	pbCore "github.com/pocketbase/pocketbase/core"

	"github.com/MicahMunyard/easyworkshophub-sub002/internal/core"
)

type PBSettingsRepo struct {
	app pbCore.App
}

func NewSettingsRepo(app pbCore.App) core.SettingsRepository {
	return &PBSettingsRepo{app: app}
}

// GetSettings fetches the single settings record. If it is missing
// (shouldn't happen, the migration seeds it) hardcoded defaults are
// returned so callers never deal with a nil settings object.
func (r *PBSettingsRepo) GetSettings() (*core.Settings, error) {
	records, err := r.app.FindRecordsByFilter("settings", "1=1", "-created", 1, 0, nil)
	if err != nil || len(records) == 0 {
		log.Printf("⚠️ [SETTINGS] Could not fetch settings from DB: %v. Using defaults.", err)
		return &core.Settings{
			WorkshopName: "EasyWorkshopHub",
			IntakeSecret: os.Getenv("EWH_INTAKE_SECRET"),
		}, nil
	}

	rec := records[0]
	settings := &core.Settings{
		ID:            rec.Id,
		WorkshopName:  rec.GetString("workshop_name"),
		ContactEmail:  rec.GetString("contact_email"),
		ContactPhone:  rec.GetString("contact_phone"),
		IntakeSecret:  rec.GetString("intake_secret"),
		LowStockAlert: rec.GetBool("low_stock_alert"),
	}

	// Environment wins for the webhook secret so deployments can rotate it
	// without touching the DB
	if env := os.Getenv("EWH_INTAKE_SECRET"); env != "" {
		settings.IntakeSecret = env
	}

	return settings, nil
}
