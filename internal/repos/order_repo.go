package repos

import (
	"reliefmarket/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) Begin() (*sqlx.Tx, error) { return r.db.Beginx() }

const orderCols = `id, user_id, total_amount, status, pickup_location_id, notes, created_at, updated_at`

// CreateTx inserts the order header and all line items inside tx.
func (r *OrderRepo) CreateTx(tx *sqlx.Tx, o *domain.Order) error {
	if _, err := tx.Exec(`
	  INSERT INTO orders(id,user_id,total_amount,status,pickup_location_id,notes,created_at,updated_at)
	  VALUES(?,?,?,?,?,?,?,?)`,
		o.ID, o.UserID, o.TotalAmount, o.Status, o.PickupLocationID, o.Notes, o.CreatedAt, o.UpdatedAt); err != nil {
		return err
	}
	for _, it := range o.Items {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id,product_id,quantity,price,title)
		  VALUES(?,?,?,?,?)`,
			o.ID, it.ProductID, it.Quantity, it.Price, it.Title); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepo) Get(id string) (domain.Order, error) {
	var o domain.Order
	if err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id=?`, id); err != nil {
		return domain.Order{}, err
	}
	if err := r.attachItems(&o); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *OrderRepo) attachItems(o *domain.Order) error {
	o.Items = []domain.OrderItem{}
	return r.db.Select(&o.Items, `
	  SELECT product_id, quantity, price, title
	  FROM order_items WHERE order_id=? ORDER BY rowid`, o.ID)
}

// OrderFilter narrows List results by caller role.
type OrderFilter struct {
	UserID string // victim: only their own orders
	// ManufacturerID: only orders containing at least one of this
	// manufacturer's products.
	ManufacturerID string
	Status         string
}

func (r *OrderRepo) List(f OrderFilter) ([]domain.Order, error) {
	where := `1=1`
	args := []any{}
	if f.UserID != "" {
		where += ` AND o.user_id = ?`
		args = append(args, f.UserID)
	}
	if f.ManufacturerID != "" {
		where += ` AND EXISTS (
		  SELECT 1 FROM order_items oi
		  JOIN products p ON p.id = oi.product_id
		  WHERE oi.order_id = o.id AND p.manufacturer_id = ?)`
		args = append(args, f.ManufacturerID)
	}
	if f.Status != "" {
		where += ` AND o.status = ?`
		args = append(args, f.Status)
	}

	var out []domain.Order
	err := r.db.Select(&out, `
	  SELECT `+orderCols+` FROM orders o
	  WHERE `+where+`
	  ORDER BY datetime(o.created_at) DESC`, args...)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.attachItems(&out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// GetTx reads an order with items inside an open transaction.
func (r *OrderRepo) GetTx(tx *sqlx.Tx, id string) (domain.Order, error) {
	var o domain.Order
	if err := tx.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id=?`, id); err != nil {
		return domain.Order{}, err
	}
	o.Items = []domain.OrderItem{}
	if err := tx.Select(&o.Items, `
	  SELECT product_id, quantity, price, title
	  FROM order_items WHERE order_id=? ORDER BY rowid`, id); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *OrderRepo) UpdateStatusTx(tx *sqlx.Tx, id, status string) error {
	_, err := tx.Exec(`UPDATE orders SET status=?, updated_at=? WHERE id=?`, status, now(), id)
	return err
}

type OrderTotals struct {
	Count int     `db:"count"`
	Value float64 `db:"value"`
}

func (r *OrderRepo) Totals() (OrderTotals, error) {
	var t OrderTotals
	err := r.db.Get(&t, `SELECT COUNT(*) AS count, COALESCE(SUM(total_amount),0) AS value FROM orders`)
	return t, err
}
