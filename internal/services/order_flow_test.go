package services_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"maisonmarket/internal/domain"
	"maisonmarket/internal/repos"
	"maisonmarket/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	for _, q := range []string{
		`DELETE FROM reviews`,
		`DELETE FROM wishlist_items`,
		`DELETE FROM cart_items`,
		`DELETE FROM collection_items`,
		`DELETE FROM collections`,
		`DELETE FROM order_items`,
		`DELETE FROM orders`,
		`DELETE FROM notifications`,
		`DELETE FROM products`,
	} {
		if _, err := db.Exec(q); err != nil {
			t.Fatal(err)
		}
	}
	return db
}

func checkoutFixture(t *testing.T, db *sqlx.DB) (*services.CartService, *services.OrderService, *repos.NotificationRepo) {
	t.Helper()
	_, err := db.Exec(`
	  INSERT INTO products(id, merchant_id, name, description, category, price,
	    original_price, images_json, status, is_featured, stock, min_stock, max_stock, created_at)
	  VALUES('p-flap','m-chanel','Classic Flap','','bags',129.99,0,'[]','ACTIVE',0,5,1,100,CURRENT_TIMESTAMP)
	`)
	if err != nil {
		t.Fatal(err)
	}

	addrRepo := repos.NewAddressRepo(db)
	payRepo := repos.NewPaymentMethodRepo(db)
	if err := addrRepo.Create(domain.Address{ID: "a-1", UserID: "u-alice", Recipient: "Alice",
		Street: "1 Rue Cambon", City: "Paris", PostalCode: "75001", Country: "FR", IsDefault: true}); err != nil {
		t.Fatal(err)
	}
	if err := payRepo.Create(domain.PaymentMethod{ID: "pm-1", UserID: "u-alice", Kind: "CARD",
		Brand: "VISA", Last4: "4242", Expiry: "12/28", Holder: "Alice", IsDefault: true}); err != nil {
		t.Fatal(err)
	}

	cartRepo := repos.NewCartRepo(db)
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	notifRepo := repos.NewNotificationRepo(db)

	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(cartRepo, prodRepo, orderRepo, addrRepo, payRepo, notifRepo)
	return cartSvc, orderSvc, notifRepo
}

func TestOrderFlow_PlaceFromCart(t *testing.T) {
	db := memdb(t)
	cartSvc, orderSvc, notifRepo := checkoutFixture(t, db)

	sid := "test-session"
	if err := cartSvc.Add(sid, "p-flap", "black", "M", 2); err != nil {
		t.Fatal(err)
	}

	oid, err := orderSvc.Place("u-alice", sid, "a-1", "pm-1")
	if err != nil {
		t.Fatal(err)
	}
	if oid == "" {
		t.Fatal("no order id")
	}

	o, items, err := orderSvc.GetForUser(oid, "u-alice")
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != domain.OrderPending {
		t.Fatalf("new orders start PENDING, got %s", o.Status)
	}
	if len(items) != 1 || items[0].Qty != 2 {
		t.Fatalf("bad order items: %+v", items)
	}
	if want := 2 * 129.99; o.Total != want || items[0].Total != want {
		t.Fatalf("line total and order total must both be price*qty, got order=%v line=%v", o.Total, items[0].Total)
	}

	// stock decremented 5 -> 3
	var stock int
	if err := db.Get(&stock, `SELECT stock FROM products WHERE id='p-flap'`); err != nil {
		t.Fatal(err)
	}
	if stock != 3 {
		t.Fatalf("want stock=3, got %d", stock)
	}

	// cart cleared
	cv, err := cartSvc.View(sid)
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 0 {
		t.Fatalf("cart must be empty after checkout: %+v", cv.Items)
	}

	// customer notified
	n, err := notifRepo.UnreadCount("u-alice")
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Fatal("placing an order must notify the customer")
	}
}

func TestOrderFlow_ShortStockLeavesEveryLineUntouched(t *testing.T) {
	db := memdb(t)
	cartSvc, orderSvc, _ := checkoutFixture(t, db)

	if _, err := db.Exec(`
	  INSERT INTO products(id, merchant_id, name, description, category, price,
	    original_price, images_json, status, is_featured, stock, min_stock, max_stock, created_at)
	  VALUES('p-scarce','m-chanel','Limited Brooch','','jewelry',59.5,0,'[]','ACTIVE',0,1,1,100,CURRENT_TIMESTAMP)
	`); err != nil {
		t.Fatal(err)
	}

	sid := "test-session"
	if err := cartSvc.Add(sid, "p-flap", "", "", 2); err != nil {
		t.Fatal(err)
	}
	if err := cartSvc.Add(sid, "p-scarce", "", "", 3); err != nil {
		t.Fatal(err)
	}

	if _, err := orderSvc.Place("u-alice", sid, "a-1", "pm-1"); !errors.Is(err, domain.ErrNotEnoughStock) {
		t.Fatalf("want ErrNotEnoughStock, got %v", err)
	}

	// the fulfillable line must not have been decremented on the way down
	var stock int
	if err := db.Get(&stock, `SELECT stock FROM products WHERE id='p-flap'`); err != nil {
		t.Fatal(err)
	}
	if stock != 5 {
		t.Fatalf("failed checkout must not touch stock, got %d want 5", stock)
	}
}

func TestOrderFlow_ForeignAddressRejected(t *testing.T) {
	db := memdb(t)
	cartSvc, orderSvc, _ := checkoutFixture(t, db)

	sid := "test-session"
	if err := cartSvc.Add(sid, "p-flap", "", "", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := orderSvc.Place("u-bob", sid, "a-1", "pm-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("using another user's address must fail, got %v", err)
	}
}

func TestOrderFlow_Transitions(t *testing.T) {
	db := memdb(t)
	cartSvc, orderSvc, _ := checkoutFixture(t, db)

	sid := "test-session"
	if err := cartSvc.Add(sid, "p-flap", "", "", 1); err != nil {
		t.Fatal(err)
	}
	oid, err := orderSvc.Place("u-alice", sid, "a-1", "pm-1")
	if err != nil {
		t.Fatal(err)
	}

	// PENDING can't jump straight to DELIVERED
	if err := orderSvc.Transition(oid, domain.OrderDelivered); !errors.Is(err, domain.ErrTransition) {
		t.Fatalf("want ErrTransition, got %v", err)
	}

	for _, to := range []string{domain.OrderProcessing, domain.OrderShipped, domain.OrderDelivered} {
		if err := orderSvc.Transition(oid, to); err != nil {
			t.Fatalf("legal step to %s failed: %v", to, err)
		}
	}

	// delivered orders can still be refunded, but not cancelled
	if err := orderSvc.Transition(oid, domain.OrderCancelled); !errors.Is(err, domain.ErrTransition) {
		t.Fatalf("want ErrTransition for DELIVERED->CANCELLED, got %v", err)
	}
	if err := orderSvc.Transition(oid, domain.OrderRefunded); err != nil {
		t.Fatal(err)
	}
}

func TestOrderFlow_OwnershipOnRead(t *testing.T) {
	db := memdb(t)
	cartSvc, orderSvc, _ := checkoutFixture(t, db)

	sid := "test-session"
	if err := cartSvc.Add(sid, "p-flap", "", "", 1); err != nil {
		t.Fatal(err)
	}
	oid, err := orderSvc.Place("u-alice", sid, "a-1", "pm-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := orderSvc.GetForUser(oid, "u-bob"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("another user's order must read as not found, got %v", err)
	}
}
