package repos

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Baseline records so a fresh install is usable (idempotent; safe on every start)
	if err := seedBaseline(db); err != nil {
		return nil, err
	}

	return db, nil
}

// now is the single timestamp format used across all tables.
func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// IsUniqueViolation reports whether err is a UNIQUE constraint failure. The
// driver exposes no typed error for it, so this matches the message text.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func encodeList(items []string) string {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return string(b)
}

func decodeList(s string) []string {
	if s == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return []string{}
	}
	return out
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('victim','manufacturer','admin')),
  address TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  state TEXT NOT NULL DEFAULT '',
  zip_code TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  is_approved INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL DEFAULT ''
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));
CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  manufacturer_id TEXT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL CHECK (price >= 0),
  original_price NUMERIC NOT NULL DEFAULT 0,
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  images_json TEXT NOT NULL DEFAULT '[]',
  weight NUMERIC NOT NULL DEFAULT 0,
  dimensions TEXT NOT NULL DEFAULT '',
  min_order INTEGER NOT NULL DEFAULT 1,
  max_order INTEGER NOT NULL DEFAULT 0,
  tags_json TEXT NOT NULL DEFAULT '[]',
  is_approved INTEGER NOT NULL DEFAULT 0,
  made_in_usa INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_products_manufacturer ON products(manufacturer_id);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(LOWER(category));
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  total_amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending'
    CHECK (status IN ('pending','confirmed','ready_for_pickup','completed','cancelled')),
  pickup_location_id TEXT NOT NULL REFERENCES pickup_locations(id),
  notes TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id),
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  price NUMERIC NOT NULL,
  title TEXT NOT NULL,
  PRIMARY KEY (order_id, product_id)
);

-- Disaster zones
CREATE TABLE IF NOT EXISTS disaster_zones(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  zip_codes_json TEXT NOT NULL DEFAULT '[]',
  cities_json TEXT NOT NULL DEFAULT '[]',
  states_json TEXT NOT NULL DEFAULT '[]',
  is_active INTEGER NOT NULL DEFAULT 1,
  start_date TEXT NOT NULL,
  end_date TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_zones_active ON disaster_zones(is_active);

-- Pickup locations
CREATE TABLE IF NOT EXISTS pickup_locations(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  address TEXT NOT NULL,
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  zip_code TEXT NOT NULL,
  latitude NUMERIC NOT NULL DEFAULT 0,
  longitude NUMERIC NOT NULL DEFAULT 0,
  contact_phone TEXT NOT NULL DEFAULT '',
  contact_email TEXT NOT NULL DEFAULT '',
  hours TEXT NOT NULL DEFAULT '',
  zone_ids_json TEXT NOT NULL DEFAULT '[]',
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_locations_active ON pickup_locations(is_active);
`
	_, err := db.Exec(schema)
	return err
}

// seedBaseline mirrors the bootstrap data the platform ships with: one admin
// account, one active disaster zone and one pickup location.
func seedBaseline(db *sqlx.DB) error {
	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	var admins int
	if err := tx.Get(&admins, `SELECT COUNT(*) FROM users WHERE role='admin'`); err != nil {
		return err
	}
	if admins == 0 {
		log.Println("[seed] creating default admin user")
		h, err := bcrypt.GenerateFromPassword([]byte("password"), 12)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role,is_approved,created_at,updated_at)
			VALUES(?,?,?,?,'admin',1,?,?)`,
			uuid.NewString(), "admin@drm.org", "System Administrator", string(h), now(), now()); err != nil {
			return err
		}
	}

	var zones int
	if err := tx.Get(&zones, `SELECT COUNT(*) FROM disaster_zones`); err != nil {
		return err
	}
	if zones == 0 {
		log.Println("[seed] creating sample disaster zone")
		if _, err := tx.Exec(`
			INSERT INTO disaster_zones(id,name,description,zip_codes_json,cities_json,states_json,is_active,start_date,created_at,updated_at)
			VALUES(?,?,?,?,?,?,1,?,?,?)`,
			uuid.NewString(),
			"Hurricane Recovery Zone - Florida",
			"Areas affected by Hurricane recovery efforts in Florida",
			encodeList([]string{"33101", "33102", "33103", "33104", "33105"}),
			encodeList([]string{"Miami", "Miami Beach", "Coral Gables"}),
			encodeList([]string{"FL"}),
			now(), now(), now()); err != nil {
			return err
		}
	}

	var locations int
	if err := tx.Get(&locations, `SELECT COUNT(*) FROM pickup_locations`); err != nil {
		return err
	}
	if locations == 0 {
		log.Println("[seed] creating sample pickup location")
		if _, err := tx.Exec(`
			INSERT INTO pickup_locations(id,name,address,city,state,zip_code,latitude,longitude,contact_phone,hours,zone_ids_json,is_active,created_at,updated_at)
			VALUES(?,?,?,?,?,?,?,?,?,?,?,1,?,?)`,
			uuid.NewString(),
			"Miami Community Center", "123 Main Street", "Miami", "FL", "33101",
			25.7617, -80.1918, "(305) 555-0123",
			"Monday-Friday 9AM-5PM, Saturday 10AM-3PM",
			encodeList(nil), now(), now()); err != nil {
			return err
		}
	}

	return tx.Commit()
}
