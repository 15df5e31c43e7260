package domain

const (
	OrderPending    = "PENDING"
	OrderProcessing = "PROCESSING"
	OrderShipped    = "SHIPPED"
	OrderDelivered  = "DELIVERED"
	OrderCancelled  = "CANCELLED"
	OrderRefunded   = "REFUNDED"
)

type Order struct {
	ID              string  `db:"id"`
	UserID          string  `db:"user_id"`
	Status          string  `db:"status"`
	Total           float64 `db:"total"`
	PaymentKind     string  `db:"payment_kind"`
	PaymentMethodID string  `db:"payment_method_id"`
	AddressID       string  `db:"address_id"`
	CreatedAt       string  `db:"created_at"`
	UpdatedAt       string  `db:"updated_at"`
}

type OrderItem struct {
	OrderID    string  `db:"order_id"`
	ProductID  string  `db:"product_id"`
	MerchantID string  `db:"merchant_id"`
	Qty        int     `db:"qty"`
	Price      float64 `db:"price"`
	Total      float64 `db:"total"` // always Price * Qty
	Color      string  `db:"color"`
	Size       string  `db:"size"`
}

// orderTransitions holds the legal status moves. DELIVERED may still be
// refunded; everything else is terminal once cancelled/refunded.
var orderTransitions = map[string][]string{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
	OrderDelivered:  {OrderRefunded},
}

func CanTransitionOrder(from, to string) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
