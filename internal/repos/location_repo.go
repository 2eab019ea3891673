package repos

import (
	"reliefmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type LocationRepo struct{ db *sqlx.DB }

func NewLocationRepo(db *sqlx.DB) *LocationRepo { return &LocationRepo{db: db} }

const locationCols = `id, name, address, city, state, zip_code, latitude, longitude,
  contact_phone, contact_email, hours, zone_ids_json, is_active, created_at, updated_at`

func hydrateLocation(l *domain.PickupLocation) {
	l.ZoneIDs = decodeList(l.ZoneIDsJSON)
}

func (r *LocationRepo) List(activeOnly bool) ([]domain.PickupLocation, error) {
	q := `SELECT ` + locationCols + ` FROM pickup_locations`
	if activeOnly {
		q += ` WHERE is_active=1`
	}
	q += ` ORDER BY name`
	var out []domain.PickupLocation
	if err := r.db.Select(&out, q); err != nil {
		return nil, err
	}
	for i := range out {
		hydrateLocation(&out[i])
	}
	return out, nil
}

func (r *LocationRepo) Get(id string) (domain.PickupLocation, error) {
	var l domain.PickupLocation
	err := r.db.Get(&l, `SELECT `+locationCols+` FROM pickup_locations WHERE id=?`, id)
	if err == nil {
		hydrateLocation(&l)
	}
	return l, err
}

func (r *LocationRepo) Create(l *domain.PickupLocation) error {
	l.ZoneIDsJSON = encodeList(l.ZoneIDs)
	_, err := r.db.Exec(`
	  INSERT INTO pickup_locations(id,name,address,city,state,zip_code,latitude,longitude,
	    contact_phone,contact_email,hours,zone_ids_json,is_active,created_at,updated_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		l.ID, l.Name, l.Address, l.City, l.State, l.ZipCode, l.Latitude, l.Longitude,
		l.ContactPhone, l.ContactEmail, l.Hours, l.ZoneIDsJSON, l.IsActive, l.CreatedAt, l.UpdatedAt)
	return err
}

func (r *LocationRepo) CountActive() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM pickup_locations WHERE is_active=1`)
	return n, err
}
