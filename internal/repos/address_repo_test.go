package repos_test

import (
	"errors"
	"testing"

	"maisonmarket/internal/domain"
	"maisonmarket/internal/repos"
)

func seedAddress(id, userID string, isDefault bool) domain.Address {
	return domain.Address{
		ID: id, UserID: userID, Recipient: "A. Tester", Street: "1 Rue Cambon",
		City: "Paris", PostalCode: "75001", Country: "FR", IsDefault: isDefault,
	}
}

func TestAddressDefault_SingleHolder(t *testing.T) {
	db := memdb(t)
	r := repos.NewAddressRepo(db)

	if err := r.Create(seedAddress("a-1", "u-alice", true)); err != nil {
		t.Fatal(err)
	}
	if err := r.Create(seedAddress("a-2", "u-alice", true)); err != nil {
		t.Fatal(err)
	}

	addrs, err := r.ListByUser("u-alice")
	if err != nil {
		t.Fatal(err)
	}
	defaults := 0
	for _, a := range addrs {
		if a.IsDefault {
			defaults++
			if a.ID != "a-2" {
				t.Fatalf("the newest default must win, got %s", a.ID)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("exactly one default per user, got %d", defaults)
	}

	if err := r.SetDefault("a-1", "u-alice"); err != nil {
		t.Fatal(err)
	}
	a2, err := r.Get("a-2", "u-alice")
	if err != nil {
		t.Fatal(err)
	}
	if a2.IsDefault {
		t.Fatal("promoting a-1 must demote a-2")
	}
}

func TestAddressDefault_DeleteRejected(t *testing.T) {
	db := memdb(t)
	r := repos.NewAddressRepo(db)

	if err := r.Create(seedAddress("a-1", "u-alice", true)); err != nil {
		t.Fatal(err)
	}
	if err := r.Create(seedAddress("a-2", "u-alice", false)); err != nil {
		t.Fatal(err)
	}

	if err := r.Delete("a-1", "u-alice"); !errors.Is(err, domain.ErrDefaultRecord) {
		t.Fatalf("deleting the default must fail with ErrDefaultRecord, got %v", err)
	}
	if err := r.Delete("a-2", "u-alice"); err != nil {
		t.Fatalf("non-default deletes normally: %v", err)
	}
}

func TestAddress_OwnershipGate(t *testing.T) {
	db := memdb(t)
	r := repos.NewAddressRepo(db)

	if err := r.Create(seedAddress("a-1", "u-alice", true)); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Get("a-1", "u-bob"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("someone else's address must read as not found, got %v", err)
	}
	if err := r.SetDefault("a-1", "u-bob"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("cross-user SetDefault must fail, got %v", err)
	}
}

func TestPaymentMethodDefault_SameInvariant(t *testing.T) {
	db := memdb(t)
	r := repos.NewPaymentMethodRepo(db)

	pm := func(id string, def bool) domain.PaymentMethod {
		return domain.PaymentMethod{ID: id, UserID: "u-alice", Kind: "CARD",
			Brand: "VISA", Last4: "4242", Expiry: "12/28", Holder: "A. Tester", IsDefault: def}
	}
	if err := r.Create(pm("pm-1", true)); err != nil {
		t.Fatal(err)
	}
	if err := r.Create(pm("pm-2", true)); err != nil {
		t.Fatal(err)
	}

	list, err := r.ListByUser("u-alice")
	if err != nil {
		t.Fatal(err)
	}
	defaults := 0
	for _, p := range list {
		if p.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		t.Fatalf("exactly one default payment method, got %d", defaults)
	}

	if err := r.Delete("pm-2", "u-alice"); !errors.Is(err, domain.ErrDefaultRecord) {
		t.Fatalf("deleting the default payment method must fail, got %v", err)
	}
}
