package repos

import (
	"reliefmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ZoneRepo struct{ db *sqlx.DB }

func NewZoneRepo(db *sqlx.DB) *ZoneRepo { return &ZoneRepo{db: db} }

const zoneCols = `id, name, description, zip_codes_json, cities_json, states_json,
  is_active, start_date, end_date, created_at, updated_at`

func hydrateZone(z *domain.DisasterZone) {
	z.ZipCodes = decodeList(z.ZipsJSON)
	z.Cities = decodeList(z.CitiesJSON)
	z.States = decodeList(z.StatesJSON)
}

func (r *ZoneRepo) ListAll() ([]domain.DisasterZone, error) {
	var out []domain.DisasterZone
	err := r.db.Select(&out, `SELECT `+zoneCols+` FROM disaster_zones ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	for i := range out {
		hydrateZone(&out[i])
	}
	return out, nil
}

func (r *ZoneRepo) ListActive() ([]domain.DisasterZone, error) {
	var out []domain.DisasterZone
	err := r.db.Select(&out, `SELECT `+zoneCols+` FROM disaster_zones WHERE is_active=1`)
	if err != nil {
		return nil, err
	}
	for i := range out {
		hydrateZone(&out[i])
	}
	return out, nil
}

func (r *ZoneRepo) Create(z *domain.DisasterZone) error {
	z.ZipsJSON = encodeList(z.ZipCodes)
	z.CitiesJSON = encodeList(z.Cities)
	z.StatesJSON = encodeList(z.States)
	_, err := r.db.Exec(`
	  INSERT INTO disaster_zones(id,name,description,zip_codes_json,cities_json,states_json,
	    is_active,start_date,end_date,created_at,updated_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		z.ID, z.Name, z.Description, z.ZipsJSON, z.CitiesJSON, z.StatesJSON,
		z.IsActive, z.StartDate, z.EndDate, z.CreatedAt, z.UpdatedAt)
	return err
}

func (r *ZoneRepo) CountActive() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM disaster_zones WHERE is_active=1`)
	return n, err
}
