package repos_test

import (
	"errors"
	"testing"
	"time"

	"maisonmarket/internal/domain"
	"maisonmarket/internal/repos"
)

func TestReview_OnePerUserPerProduct(t *testing.T) {
	db := memdb(t)
	r := repos.NewReviewRepo(db)

	seedProduct(t, db, "p-flap", "m-chanel", "Classic Flap", "bags", 8000, 0, "ACTIVE", false, time.Now())

	first := domain.Review{ID: "r-1", ProductID: "p-flap", UserID: "u-alice", Rating: 5, Title: "Timeless"}
	if err := r.Create(first); err != nil {
		t.Fatal(err)
	}
	dup := domain.Review{ID: "r-2", ProductID: "p-flap", UserID: "u-alice", Rating: 1, Title: "Changed my mind"}
	if err := r.Create(dup); !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("second review by the same user must be ErrDuplicate, got %v", err)
	}

	// a different user reviews freely
	other := domain.Review{ID: "r-3", ProductID: "p-flap", UserID: "u-bob", Rating: 4}
	if err := r.Create(other); err != nil {
		t.Fatal(err)
	}

	avg, count, err := r.Summary("p-flap")
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 || avg != 4.5 {
		t.Fatalf("want avg=4.5 over 2 reviews, got avg=%v count=%d", avg, count)
	}
}

func TestReview_UpdateOwnedOnly(t *testing.T) {
	db := memdb(t)
	r := repos.NewReviewRepo(db)

	seedProduct(t, db, "p-flap", "m-chanel", "Classic Flap", "bags", 8000, 0, "ACTIVE", false, time.Now())
	if err := r.Create(domain.Review{ID: "r-1", ProductID: "p-flap", UserID: "u-alice", Rating: 5}); err != nil {
		t.Fatal(err)
	}

	if err := r.Update(domain.Review{ID: "r-1", UserID: "u-bob", Rating: 1}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("editing someone else's review must fail, got %v", err)
	}
	if err := r.Delete("r-1", "u-bob"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("deleting someone else's review must fail, got %v", err)
	}
	if err := r.Delete("r-1", "u-alice"); err != nil {
		t.Fatal(err)
	}
}
