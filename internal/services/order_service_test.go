package services_test

import (
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"reliefmarket/internal/domain"
	"reliefmarket/internal/repos"
	"reliefmarket/internal/services"
)

// memdb opens an in-memory database with the real schema and baseline seed
// (admin user, one active zone, one pickup location), then adds a victim, a
// manufacturer and a known product.
func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	fixtures := `
	INSERT INTO users(id,email,name,password_hash,role,is_approved,created_at)
	  VALUES ('u-victim','victim@test.org','Vera','x','victim',1,'2026-01-01T00:00:00Z'),
	         ('u-maker','maker@test.org','Mack','x','manufacturer',1,'2026-01-01T00:00:00Z');
	INSERT INTO products(id,manufacturer_id,title,price,quantity,is_approved,created_at)
	  VALUES ('p1','u-maker','Water Filter',10,5,1,'2026-01-01T00:00:00Z'),
	         ('p2','u-maker','Solar Lantern',25.5,2,1,'2026-01-02T00:00:00Z'),
	         ('p3','u-maker','Generator',400,3,0,'2026-01-03T00:00:00Z');
	`
	if _, err := db.Exec(fixtures); err != nil {
		t.Fatal(err)
	}
	return db
}

func pickupID(t *testing.T, db *sqlx.DB) string {
	t.Helper()
	var id string
	if err := db.Get(&id, `SELECT id FROM pickup_locations LIMIT 1`); err != nil {
		t.Fatal(err)
	}
	return id
}

func newOrderService(db *sqlx.DB) *services.OrderService {
	return services.NewOrderService(
		repos.NewProductRepo(db),
		repos.NewOrderRepo(db),
		repos.NewLocationRepo(db),
	)
}

func productQty(t *testing.T, db *sqlx.DB, id string) int {
	t.Helper()
	var qty int
	if err := db.Get(&qty, `SELECT quantity FROM products WHERE id=?`, id); err != nil {
		t.Fatal(err)
	}
	return qty
}

func orderCount(t *testing.T, db *sqlx.DB) int {
	t.Helper()
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM orders`); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestPlace_Success(t *testing.T) {
	db := memdb(t)
	svc := newOrderService(db)

	order, err := svc.Place("u-victim",
		[]services.ItemRequest{{ProductID: "p1", Quantity: 3}},
		pickupID(t, db), "leave at desk")
	if err != nil {
		t.Fatal(err)
	}

	if order.ID == "" {
		t.Fatal("no order id")
	}
	if order.Status != domain.OrderPending {
		t.Fatalf("want pending, got %s", order.Status)
	}
	if order.TotalAmount != 30 {
		t.Fatalf("want total 30, got %v", order.TotalAmount)
	}
	if len(order.Items) != 1 || order.Items[0].Price != 10 || order.Items[0].Title != "Water Filter" {
		t.Fatalf("bad snapshot: %+v", order.Items)
	}
	if qty := productQty(t, db, "p1"); qty != 2 {
		t.Fatalf("want qty 2 after debit, got %d", qty)
	}
}

func TestPlace_MultiItemTotal(t *testing.T) {
	db := memdb(t)
	svc := newOrderService(db)

	order, err := svc.Place("u-victim",
		[]services.ItemRequest{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		},
		pickupID(t, db), "")
	if err != nil {
		t.Fatal(err)
	}

	want := 2*10.0 + 1*25.5
	if order.TotalAmount != want {
		t.Fatalf("want total %v, got %v", want, order.TotalAmount)
	}
	// stored total always matches the sum recomputed from the items
	var sum float64
	for _, it := range order.Items {
		sum += it.Price * float64(it.Quantity)
	}
	if sum != order.TotalAmount {
		t.Fatalf("items sum %v != total %v", sum, order.TotalAmount)
	}
	if qty := productQty(t, db, "p2"); qty != 1 {
		t.Fatalf("want p2 qty 1, got %d", qty)
	}
}

func TestPlace_DuplicateLinesMerged(t *testing.T) {
	db := memdb(t)
	svc := newOrderService(db)

	// two request lines for the same product become one stored line
	order, err := svc.Place("u-victim",
		[]services.ItemRequest{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p1", Quantity: 1},
		},
		pickupID(t, db), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 3 {
		t.Fatalf("want one merged line of 3, got %+v", order.Items)
	}
	if order.TotalAmount != 30 {
		t.Fatalf("want total 30, got %v", order.TotalAmount)
	}
	if qty := productQty(t, db, "p1"); qty != 2 {
		t.Fatalf("want qty 2 after merged debit, got %d", qty)
	}

	stored, err := repos.NewOrderRepo(db).Get(order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored.Items) != 1 || stored.Items[0].Quantity != 3 {
		t.Fatalf("stored items not merged: %+v", stored.Items)
	}
}

func TestPlace_DuplicateLinesExceedingStock(t *testing.T) {
	db := memdb(t)
	svc := newOrderService(db)

	// each line fits on its own; their sum does not
	_, err := svc.Place("u-victim",
		[]services.ItemRequest{
			{ProductID: "p1", Quantity: 3},
			{ProductID: "p1", Quantity: 3},
		},
		pickupID(t, db), "")
	oe, okErr := services.AsOrderError(err)
	if !okErr || oe.Code != services.CodeInsufficientStock {
		t.Fatalf("want insufficient_stock, got %v", err)
	}
	if qty := productQty(t, db, "p1"); qty != 5 {
		t.Fatalf("p1 qty changed: %d", qty)
	}
}

func TestOrderItems_KeepRequestOrder(t *testing.T) {
	db := memdb(t)
	svc := newOrderService(db)

	// "Water Filter" sorts after "Solar Lantern"; read-back must keep the
	// request order, not resort by title
	order, err := svc.Place("u-victim",
		[]services.ItemRequest{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "p2", Quantity: 1},
		},
		pickupID(t, db), "")
	if err != nil {
		t.Fatal(err)
	}

	stored, err := repos.NewOrderRepo(db).Get(order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored.Items) != 2 ||
		stored.Items[0].ProductID != "p1" || stored.Items[1].ProductID != "p2" {
		t.Fatalf("items resequenced on read: %+v", stored.Items)
	}
}

func TestPlace_EmptyItems(t *testing.T) {
	db := memdb(t)
	svc := newOrderService(db)

	_, err := svc.Place("u-victim", nil, pickupID(t, db), "")
	oe, okErr := services.AsOrderError(err)
	if !okErr || oe.Code != services.CodeInvalidRequest {
		t.Fatalf("want invalid_request, got %v", err)
	}
	if oe.Message != "Items are required" {
		t.Fatalf("unexpected message %q", oe.Message)
	}
}

func TestPlace_MissingPickupLocation(t *testing.T) {
	db := memdb(t)
	svc := newOrderService(db)

	_, err := svc.Place("u-victim",
		[]services.ItemRequest{{ProductID: "p1", Quantity: 1}}, "", "")
	oe, okErr := services.AsOrderError(err)
	if !okErr || oe.Code != services.CodeInvalidRequest {
		t.Fatalf("want invalid_request, got %v", err)
	}
	if oe.Message != "Pickup location is required" {
		t.Fatalf("unexpected message %q", oe.Message)
	}
}

func TestPlace_ProductNotFound_NoPartialMutation(t *testing.T) {
	db := memdb(t)
	svc := newOrderService(db)

	// first item validates and debits inside the tx; the ghost aborts all of it
	_, err := svc.Place("u-victim",
		[]services.ItemRequest{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "ghost", Quantity: 1},
		},
		pickupID(t, db), "")
	oe, okErr := services.AsOrderError(err)
	if !okErr || oe.Code != services.CodeProductNotFound {
		t.Fatalf("want product_not_found, got %v", err)
	}
	if !strings.Contains(oe.Message, "ghost") {
		t.Fatalf("message should name the missing id: %q", oe.Message)
	}
	if qty := productQty(t, db, "p1"); qty != 5 {
		t.Fatalf("earlier debit leaked: p1 qty %d", qty)
	}
	if n := orderCount(t, db); n != 0 {
		t.Fatalf("no order should exist, got %d", n)
	}
}

func TestPlace_UnapprovedProduct(t *testing.T) {
	db := memdb(t)
	svc := newOrderService(db)

	_, err := svc.Place("u-victim",
		[]services.ItemRequest{{ProductID: "p3", Quantity: 1}},
		pickupID(t, db), "")
	oe, okErr := services.AsOrderError(err)
	if !okErr || oe.Code != services.CodeProductNotApproved {
		t.Fatalf("want product_not_approved, got %v", err)
	}
	if !strings.Contains(oe.Message, "Generator") {
		t.Fatalf("message should name the product title: %q", oe.Message)
	}
	if qty := productQty(t, db, "p3"); qty != 3 {
		t.Fatalf("p3 qty changed: %d", qty)
	}
}

func TestPlace_InsufficientStock(t *testing.T) {
	db := memdb(t)
	svc := newOrderService(db)

	_, err := svc.Place("u-victim",
		[]services.ItemRequest{{ProductID: "p1", Quantity: 10}},
		pickupID(t, db), "")
	oe, okErr := services.AsOrderError(err)
	if !okErr || oe.Code != services.CodeInsufficientStock {
		t.Fatalf("want insufficient_stock, got %v", err)
	}
	if !strings.Contains(oe.Message, "Available: 5, Requested: 10") {
		t.Fatalf("message should report both quantities: %q", oe.Message)
	}
	if qty := productQty(t, db, "p1"); qty != 5 {
		t.Fatalf("p1 qty changed: %d", qty)
	}
	if n := orderCount(t, db); n != 0 {
		t.Fatalf("no order should exist, got %d", n)
	}
}

func TestPlace_FirstErrorWins(t *testing.T) {
	db := memdb(t)
	svc := newOrderService(db)

	// both lines are bad; only the first is reported, in request order
	_, err := svc.Place("u-victim",
		[]services.ItemRequest{
			{ProductID: "p3", Quantity: 1},  // unapproved
			{ProductID: "p1", Quantity: 99}, // insufficient
		},
		pickupID(t, db), "")
	oe, okErr := services.AsOrderError(err)
	if !okErr || oe.Code != services.CodeProductNotApproved {
		t.Fatalf("want first failure (not approved), got %v", err)
	}
}

func TestUpdateStatus_CancelRestocks(t *testing.T) {
	db := memdb(t)
	svc := newOrderService(db)

	order, err := svc.Place("u-victim",
		[]services.ItemRequest{{ProductID: "p1", Quantity: 3}},
		pickupID(t, db), "")
	if err != nil {
		t.Fatal(err)
	}
	if qty := productQty(t, db, "p1"); qty != 2 {
		t.Fatalf("want qty 2 after order, got %d", qty)
	}

	updated, err := svc.UpdateStatus(order.ID, domain.OrderCancelled)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != domain.OrderCancelled {
		t.Fatalf("want cancelled, got %s", updated.Status)
	}
	if qty := productQty(t, db, "p1"); qty != 5 {
		t.Fatalf("cancel should restock to 5, got %d", qty)
	}
}

func TestUpdateStatus_Transitions(t *testing.T) {
	db := memdb(t)
	svc := newOrderService(db)

	order, err := svc.Place("u-victim",
		[]services.ItemRequest{{ProductID: "p1", Quantity: 1}},
		pickupID(t, db), "")
	if err != nil {
		t.Fatal(err)
	}

	for _, next := range []string{domain.OrderConfirmed, domain.OrderReadyForPickup, domain.OrderCompleted} {
		if _, err := svc.UpdateStatus(order.ID, next); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}

	// completed orders are terminal
	if _, err := svc.UpdateStatus(order.ID, domain.OrderCancelled); err != services.ErrBadTransition {
		t.Fatalf("want ErrBadTransition, got %v", err)
	}

	if _, err := svc.UpdateStatus("nope", domain.OrderConfirmed); err != services.ErrOrderNotFound {
		t.Fatalf("want ErrOrderNotFound, got %v", err)
	}
}

func TestUpdateStatus_NoCancelAfterReady(t *testing.T) {
	db := memdb(t)
	svc := newOrderService(db)

	order, err := svc.Place("u-victim",
		[]services.ItemRequest{{ProductID: "p1", Quantity: 2}},
		pickupID(t, db), "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpdateStatus(order.ID, domain.OrderConfirmed); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpdateStatus(order.ID, domain.OrderReadyForPickup); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.UpdateStatus(order.ID, domain.OrderCancelled); err != services.ErrBadTransition {
		t.Fatalf("want ErrBadTransition after ready_for_pickup, got %v", err)
	}
	if qty := productQty(t, db, "p1"); qty != 3 {
		t.Fatalf("rejected cancel must not restock, got %d", qty)
	}
}

func TestListFor_RoleScoping(t *testing.T) {
	db := memdb(t)
	svc := newOrderService(db)

	if _, err := db.Exec(`
	  INSERT INTO users(id,email,name,password_hash,role,is_approved,created_at)
	  VALUES ('u-other','other@test.org','Olga','x','victim',1,'2026-01-01T00:00:00Z'),
	         ('u-maker2','maker2@test.org','Mona','x','manufacturer',1,'2026-01-01T00:00:00Z');
	  INSERT INTO products(id,manufacturer_id,title,price,quantity,is_approved,created_at)
	  VALUES ('q1','u-maker2','Tarp',5,10,1,'2026-01-04T00:00:00Z');
	`); err != nil {
		t.Fatal(err)
	}

	loc := pickupID(t, db)
	if _, err := svc.Place("u-victim", []services.ItemRequest{{ProductID: "p1", Quantity: 1}}, loc, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Place("u-other", []services.ItemRequest{{ProductID: "q1", Quantity: 2}}, loc, ""); err != nil {
		t.Fatal(err)
	}

	mine, err := svc.ListFor("u-victim", domain.RoleVictim, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].UserID != "u-victim" {
		t.Fatalf("victim should see only their order: %+v", mine)
	}

	// manufacturer sees only orders containing their products
	maker2, err := svc.ListFor("u-maker2", domain.RoleManufacturer, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(maker2) != 1 || maker2[0].Items[0].ProductID != "q1" {
		t.Fatalf("manufacturer scoping broken: %+v", maker2)
	}

	all, err := svc.ListFor("whoever", domain.RoleAdmin, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("admin should see all orders, got %d", len(all))
	}

	pendingOnly, err := svc.ListFor("whoever", domain.RoleAdmin, domain.OrderPending)
	if err != nil {
		t.Fatal(err)
	}
	if len(pendingOnly) != 2 {
		t.Fatalf("status filter broken, got %d", len(pendingOnly))
	}
}
