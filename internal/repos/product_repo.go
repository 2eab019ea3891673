package repos

import (
	"strings"

	"reliefmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `p.id, p.manufacturer_id, p.title, p.description, p.category, p.price,
  p.original_price, p.quantity, p.images_json, p.weight, p.dimensions, p.min_order,
  p.max_order, p.tags_json, p.is_approved, p.made_in_usa, p.created_at, p.updated_at`

func hydrateProduct(p *domain.Product) {
	p.Images = decodeList(p.ImagesJSON)
	p.Tags = decodeList(p.TagsJSON)
}

// ProductFilter narrows List results; zero values skip the corresponding filter.
type ProductFilter struct {
	Category       string // case-insensitive substring
	ManufacturerID string
	Approved       *bool
	// PublicOnly restricts to approved products with stock, for
	// unauthenticated catalog browsing.
	PublicOnly bool
}

func (r *ProductRepo) List(f ProductFilter) ([]domain.Product, error) {
	where := `1=1`
	args := []any{}
	if f.Category != "" {
		where += ` AND LOWER(p.category) LIKE ?`
		args = append(args, "%"+strings.ToLower(f.Category)+"%")
	}
	if f.ManufacturerID != "" {
		where += ` AND p.manufacturer_id = ?`
		args = append(args, f.ManufacturerID)
	}
	if f.Approved != nil {
		where += ` AND p.is_approved = ?`
		args = append(args, *f.Approved)
	}
	if f.PublicOnly {
		where += ` AND p.is_approved = 1 AND p.quantity > 0`
	}

	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`, COALESCE(u.name,'Unknown Manufacturer') AS manufacturer_name
	  FROM products p
	  LEFT JOIN users u ON u.id = p.manufacturer_id
	  WHERE `+where+`
	  ORDER BY p.created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	for i := range out {
		hydrateProduct(&out[i])
	}
	return out, nil
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
	  SELECT `+productCols+` FROM products p WHERE p.id = ?`, id)
	if err == nil {
		hydrateProduct(&p)
	}
	return p, err
}

// GetTx reads a product inside an open transaction so the subsequent debit
// sees the same row state.
func (r *ProductRepo) GetTx(tx *sqlx.Tx, id string) (domain.Product, error) {
	var p domain.Product
	err := tx.Get(&p, `
	  SELECT `+productCols+` FROM products p WHERE p.id = ?`, id)
	if err == nil {
		hydrateProduct(&p)
	}
	return p, err
}

func (r *ProductRepo) Create(p *domain.Product) error {
	p.ImagesJSON = encodeList(p.Images)
	p.TagsJSON = encodeList(p.Tags)
	_, err := r.db.Exec(`
	  INSERT INTO products(id,manufacturer_id,title,description,category,price,original_price,
	    quantity,images_json,weight,dimensions,min_order,max_order,tags_json,is_approved,
	    made_in_usa,created_at,updated_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.ManufacturerID, p.Title, p.Description, p.Category, p.Price, p.OriginalPrice,
		p.Quantity, p.ImagesJSON, p.Weight, p.Dimensions, p.MinOrder, p.MaxOrder, p.TagsJSON,
		p.IsApproved, p.MadeInUSA, p.CreatedAt, p.UpdatedAt)
	return err
}

// DebitTx subtracts "by" units inside tx if enough stock exists. The guard in
// the WHERE clause is what makes two racing orders safe: the second one finds
// no row to update and the whole batch rolls back.
func (r *ProductRepo) DebitTx(tx *sqlx.Tx, productID string, by int) (bool, error) {
	res, err := tx.Exec(`
		UPDATE products
		SET quantity = quantity - ?, updated_at = ?
		WHERE id = ? AND quantity >= ?`, by, now(), productID, by)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// CreditTx restores stock, used when a cancelled order restocks its items.
func (r *ProductRepo) CreditTx(tx *sqlx.Tx, productID string, by int) error {
	_, err := tx.Exec(`
		UPDATE products
		SET quantity = quantity + ?, updated_at = ?
		WHERE id = ?`, by, now(), productID)
	return err
}

func (r *ProductRepo) SetApproval(id string, approved bool) error {
	_, err := r.db.Exec(`UPDATE products SET is_approved=?, updated_at=? WHERE id=?`, approved, now(), id)
	return err
}

func (r *ProductRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products`)
	return n, err
}
