package repos

import (
	"reliefmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id,email,name,password_hash,role,address,city,state,zip_code,phone,is_approved,created_at,updated_at`

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(u *domain.User) error {
	_, err := r.DB.Exec(`
		INSERT INTO users(id,email,name,password_hash,role,address,city,state,zip_code,phone,is_approved,created_at,updated_at)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		u.ID, u.Email, u.Name, u.Hash, u.Role, u.Address, u.City, u.State, u.ZipCode, u.Phone,
		u.IsApproved, u.CreatedAt, u.UpdatedAt)
	return err
}

// List returns users filtered by role and/or approval status. Either filter
// may be empty/nil to skip it.
func (r *UserRepo) List(role string, approved *bool) ([]domain.User, error) {
	where := `1=1`
	args := []any{}
	if role != "" {
		where += ` AND role = ?`
		args = append(args, role)
	}
	if approved != nil {
		where += ` AND is_approved = ?`
		args = append(args, *approved)
	}
	var out []domain.User
	err := r.DB.Select(&out, `SELECT `+userCols+` FROM users WHERE `+where+` ORDER BY created_at DESC`, args...)
	return out, err
}

// SetApproval flips a user's approval flag; returns the updated user.
func (r *UserRepo) SetApproval(id string, approved bool) (*domain.User, error) {
	res, err := r.DB.Exec(`UPDATE users SET is_approved=?, updated_at=? WHERE id=?`, approved, now(), id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return r.ByID(id)
}

type UserCounts struct {
	Total         int `db:"total"`
	Victims       int `db:"victims"`
	Manufacturers int `db:"manufacturers"`
}

func (r *UserRepo) Counts() (UserCounts, error) {
	var c UserCounts
	err := r.DB.Get(&c, `
		SELECT COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN role='victim' THEN 1 ELSE 0 END),0) AS victims,
		       COALESCE(SUM(CASE WHEN role='manufacturer' THEN 1 ELSE 0 END),0) AS manufacturers
		FROM users`)
	return c, err
}
