package domain

type Merchant struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Slug         string `db:"slug" json:"slug"`
	Category     string `db:"category" json:"category"`
	Status       string `db:"status" json:"status"` // ACTIVE | SUSPENDED
	Verified     bool   `db:"verified" json:"verified"`
	ContactEmail string `db:"contact_email" json:"contactEmail"`
	Phone        string `db:"phone" json:"phone"`
	Street       string `db:"street" json:"street"`
	City         string `db:"city" json:"city"`
	Country      string `db:"country" json:"country"`
	Description  string `db:"description" json:"description"`
	Currency     string `db:"currency" json:"currency"`
	SupportEmail string `db:"support_email" json:"supportEmail"`
	ShippingNote string `db:"shipping_note" json:"shippingNote"`
	CreatedAt    string `db:"created_at" json:"createdAt"`
	UpdatedAt    string `db:"updated_at" json:"updatedAt"`
}

type Product struct {
	ID            string  `db:"id" json:"id"`
	MerchantID    string  `db:"merchant_id" json:"merchantId"`
	Name          string  `db:"name" json:"name"`
	Description   string  `db:"description" json:"description"`
	Category      string  `db:"category" json:"category"`
	Price         float64 `db:"price" json:"price"`
	OriginalPrice float64 `db:"original_price" json:"originalPrice"` // 0 when never discounted
	ImagesJSON    string  `db:"images_json" json:"-"`
	Status        string  `db:"status" json:"status"` // ACTIVE | DRAFT | ARCHIVED
	IsFeatured    bool    `db:"is_featured" json:"isFeatured"`
	Stock         int     `db:"stock" json:"-"`
	MinStock      int     `db:"min_stock" json:"-"`
	MaxStock      int     `db:"max_stock" json:"-"`
	CreatedAt     string  `db:"created_at" json:"createdAt"`
	UpdatedAt     string  `db:"updated_at" json:"updatedAt"`
}

// OnSale is derived, never stored: a discount exists when the original
// price is set above the current price.
func (p Product) OnSale() bool {
	return p.OriginalPrice > p.Price
}

type Collection struct {
	ID           string  `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Slug         string  `db:"slug" json:"slug"`
	Season       string  `db:"season" json:"season"` // SPRING | SUMMER | FALL | WINTER | RESORT
	Year         int     `db:"year" json:"year"`
	Status       string  `db:"status" json:"status"` // ACTIVE | DRAFT | ARCHIVED
	DisplayOrder int     `db:"display_order" json:"displayOrder"`
	IsFeatured   bool    `db:"is_featured" json:"isFeatured"`
	IsNew        bool    `db:"is_new" json:"isNew"`
	MinPrice     float64 `db:"min_price" json:"minPrice"`
	MaxPrice     float64 `db:"max_price" json:"maxPrice"`
	TagsJSON     string  `db:"tags_json" json:"-"`
	Description  string  `db:"description" json:"description"`
	CreatedAt    string  `db:"created_at" json:"createdAt"`
	UpdatedAt    string  `db:"updated_at" json:"updatedAt"`
}

type CollectionItem struct {
	CollectionID string `db:"collection_id"`
	ProductID    string `db:"product_id"`
	DisplayOrder int    `db:"display_order"`
	Highlight    bool   `db:"highlight"`
	CustomDesc   string `db:"custom_desc"`
}

type Review struct {
	ID        string `db:"id" json:"id"`
	ProductID string `db:"product_id" json:"productId"`
	UserID    string `db:"user_id" json:"-"`
	Rating    int    `db:"rating" json:"rating"` // 1..5
	Title     string `db:"title" json:"title"`
	Body      string `db:"body" json:"body"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}

const (
	ProductActive   = "ACTIVE"
	ProductDraft    = "DRAFT"
	ProductArchived = "ARCHIVED"
)
