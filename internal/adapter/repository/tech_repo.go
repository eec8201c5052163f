package repository

import (
	pbCore "github.com/pocketbase/pocketbase/core"

	"github.com/MicahMunyard/easyworkshophub-sub002/internal/core"
)

type PBTechnicianRepo struct {
	app pbCore.App
}

func NewTechnicianRepo(app pbCore.App) core.TechnicianRepository {
	return &PBTechnicianRepo{app: app}
}

func (r *PBTechnicianRepo) toDomain(record *pbCore.Record) *core.Technician {
	return &core.Technician{
		ID:       record.Id,
		Name:     record.GetString("name"),
		Email:    record.Email(),
		Active:   record.GetBool("active"),
		Verified: record.GetBool("verified"),
		UserID:   record.GetString("user_id"),
	}
}

func (r *PBTechnicianRepo) GetByID(id string) (*core.Technician, error) {
	record, err := r.app.FindRecordById("technicians", id)
	if err != nil {
		return nil, err
	}
	return r.toDomain(record), nil
}

func (r *PBTechnicianRepo) GetActive() ([]*core.Technician, error) {
	records, err := r.app.FindRecordsByFilter("technicians", "active = true", "name", 200, 0, nil)
	if err != nil {
		return nil, err
	}

	var techs []*core.Technician
	for _, rec := range records {
		techs = append(techs, r.toDomain(rec))
	}
	return techs, nil
}
