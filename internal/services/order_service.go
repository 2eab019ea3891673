package services

import (
	"database/sql"
	"errors"
	"fmt"

	"reliefmarket/internal/domain"
	"reliefmarket/internal/repos"

	"github.com/google/uuid"
)

// ItemRequest is one requested line of an order: which product, how many.
type ItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type OrderService struct {
	Products  *repos.ProductRepo
	Orders    *repos.OrderRepo
	Locations *repos.LocationRepo
}

func NewOrderService(products *repos.ProductRepo, orders *repos.OrderRepo, locations *repos.LocationRepo) *OrderService {
	return &OrderService{Products: products, Orders: orders, Locations: locations}
}

// mergeLines collapses repeated product ids into one line, summing quantities.
// Orders store one line per product, so a request naming the same product
// twice must not produce two rows. First-occurrence order is kept.
func mergeLines(items []ItemRequest) []ItemRequest {
	merged := make([]ItemRequest, 0, len(items))
	index := make(map[string]int, len(items))
	for _, it := range items {
		if i, seen := index[it.ProductID]; seen {
			merged[i].Quantity += it.Quantity
			continue
		}
		index[it.ProductID] = len(merged)
		merged = append(merged, it)
	}
	return merged
}

// Place validates every requested line against live product state and, only
// if the whole batch passes, debits stock and persists the order. The entire
// validate-then-mutate sequence runs in one transaction, so a mid-batch
// failure or a racing order can never leave partial debits behind.
//
// Validation is short-circuiting: the first offending item aborts the batch
// and nothing is written. Lines naming the same product are merged into one
// before stock is checked.
func (s *OrderService) Place(userID string, items []ItemRequest, pickupLocationID, notes string) (domain.Order, error) {
	if len(items) == 0 {
		return domain.Order{}, orderErrf(CodeInvalidRequest, "Items are required")
	}
	if pickupLocationID == "" {
		return domain.Order{}, orderErrf(CodeInvalidRequest, "Pickup location is required")
	}
	if _, err := s.Locations.Get(pickupLocationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, orderErrf(CodeInvalidRequest, "Pickup location not found")
		}
		return domain.Order{}, err
	}

	tx, err := s.Orders.Begin()
	if err != nil {
		return domain.Order{}, err
	}
	defer func() { _ = tx.Rollback() }()

	ts := domain.Order{
		ID:               uuid.NewString(),
		UserID:           userID,
		Status:           domain.OrderPending,
		PickupLocationID: pickupLocationID,
		Notes:            notes,
	}

	for _, it := range items {
		if it.Quantity < 1 {
			return domain.Order{}, orderErrf(CodeInvalidRequest,
				fmt.Sprintf("Invalid quantity for product %s", it.ProductID))
		}
	}

	for _, it := range mergeLines(items) {
		p, err := s.Products.GetTx(tx, it.ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.Order{}, orderErrf(CodeProductNotFound,
					fmt.Sprintf("Product with ID %s not found", it.ProductID))
			}
			return domain.Order{}, err
		}
		if !p.IsApproved {
			return domain.Order{}, orderErrf(CodeProductNotApproved,
				fmt.Sprintf("Product %q is not approved for sale", p.Title))
		}
		if p.Quantity < it.Quantity {
			return domain.Order{}, orderErrf(CodeInsufficientStock,
				fmt.Sprintf("Insufficient quantity for product %q. Available: %d, Requested: %d",
					p.Title, p.Quantity, it.Quantity))
		}

		// Conditional debit; the quantity guard repeats inside the UPDATE so a
		// concurrent writer cannot sneak between check and write.
		ok, err := s.Products.DebitTx(tx, p.ID, it.Quantity)
		if err != nil {
			return domain.Order{}, err
		}
		if !ok {
			return domain.Order{}, orderErrf(CodeInsufficientStock,
				fmt.Sprintf("Insufficient quantity for product %q. Available: %d, Requested: %d",
					p.Title, p.Quantity, it.Quantity))
		}

		// Frozen snapshot: price and title as they were at order time.
		ts.Items = append(ts.Items, domain.OrderItem{
			ProductID: p.ID,
			Quantity:  it.Quantity,
			Price:     p.Price,
			Title:     p.Title,
		})
		ts.TotalAmount += p.Price * float64(it.Quantity)
	}

	ts.CreatedAt = nowStamp()
	ts.UpdatedAt = ts.CreatedAt
	if err := s.Orders.CreateTx(tx, &ts); err != nil {
		return domain.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Order{}, err
	}
	return ts, nil
}

// ListFor returns the orders visible to the caller: victims see their own,
// manufacturers see orders containing their products, admins see everything.
func (s *OrderService) ListFor(userID, role, status string) ([]domain.Order, error) {
	f := repos.OrderFilter{Status: status}
	switch role {
	case domain.RoleVictim:
		f.UserID = userID
	case domain.RoleManufacturer:
		f.ManufacturerID = userID
	}
	return s.Orders.List(f)
}

var ErrOrderNotFound = errors.New("order not found")
var ErrBadTransition = errors.New("invalid status transition")

// UpdateStatus moves an order between lifecycle states. Cancelling restocks
// every line item symmetrically, in the same transaction as the status write.
// Cancellation is only allowed before fulfilment starts.
func (s *OrderService) UpdateStatus(orderID, status string) (domain.Order, error) {
	tx, err := s.Orders.Begin()
	if err != nil {
		return domain.Order{}, err
	}
	defer func() { _ = tx.Rollback() }()

	o, err := s.Orders.GetTx(tx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, ErrOrderNotFound
		}
		return domain.Order{}, err
	}

	if o.Status == domain.OrderCompleted || o.Status == domain.OrderCancelled {
		return domain.Order{}, ErrBadTransition
	}
	if status == domain.OrderCancelled {
		if o.Status != domain.OrderPending && o.Status != domain.OrderConfirmed {
			return domain.Order{}, ErrBadTransition
		}
		for _, it := range o.Items {
			if err := s.Products.CreditTx(tx, it.ProductID, it.Quantity); err != nil {
				return domain.Order{}, err
			}
		}
	}

	if err := s.Orders.UpdateStatusTx(tx, orderID, status); err != nil {
		return domain.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Order{}, err
	}
	return s.Orders.Get(orderID)
}
