package domain

const (
	RoleUser     = "USER"
	RoleMerchant = "MERCHANT"
	RoleAdmin    = "ADMIN"
)

type User struct {
	ID         string `db:"id"`
	Email      string `db:"email"`
	Name       string `db:"name"`
	Hash       string `db:"password_hash"`
	Role       string `db:"role"`
	MerchantID string `db:"merchant_id"` // set for MERCHANT operators
}
