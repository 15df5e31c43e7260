package domain

type Address struct {
	ID         string `db:"id"`
	UserID     string `db:"user_id"`
	Label      string `db:"label"`
	Recipient  string `db:"recipient"`
	Street     string `db:"street"`
	City       string `db:"city"`
	Region     string `db:"region"`
	PostalCode string `db:"postal_code"`
	Country    string `db:"country"`
	Phone      string `db:"phone"`
	IsDefault  bool   `db:"is_default"`
	CreatedAt  string `db:"created_at"`
	UpdatedAt  string `db:"updated_at"`
}

type PaymentMethod struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	Kind      string `db:"kind"` // CARD | PAYPAL | BANK
	Brand     string `db:"brand"`
	Last4     string `db:"last4"`
	Expiry    string `db:"expiry"`
	Holder    string `db:"holder"`
	IsDefault bool   `db:"is_default"`
	CreatedAt string `db:"created_at"`
}

const (
	NotificationPending  = "PENDING"
	NotificationRead     = "READ"
	NotificationArchived = "ARCHIVED"
)

type Notification struct {
	ID         string `db:"id"`
	UserID     string `db:"user_id"`
	Kind       string `db:"kind"`
	Title      string `db:"title"`
	Body       string `db:"body"`
	Status     string `db:"status"`
	ReadAt     string `db:"read_at"`
	ArchivedAt string `db:"archived_at"`
	CreatedAt  string `db:"created_at"`
}
