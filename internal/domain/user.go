package domain

type User struct {
	ID         string `db:"id" json:"id"`
	Email      string `db:"email" json:"email"`
	Name       string `db:"name" json:"name"`
	Hash       string `db:"password_hash" json:"-"`
	Role       string `db:"role" json:"role"`
	Address    string `db:"address" json:"address,omitempty"`
	City       string `db:"city" json:"city,omitempty"`
	State      string `db:"state" json:"state,omitempty"`
	ZipCode    string `db:"zip_code" json:"zipCode,omitempty"`
	Phone      string `db:"phone" json:"phone,omitempty"`
	IsApproved bool   `db:"is_approved" json:"isApproved"`
	CreatedAt  string `db:"created_at" json:"createdAt"`
	UpdatedAt  string `db:"updated_at" json:"updatedAt"`
}

// AuthUser is the identity embedded in tokens and returned by auth endpoints.
type AuthUser struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	IsApproved bool   `json:"isApproved"`
}
