package handlers

import (
	"maisonmarket/internal/repos"
	"maisonmarket/internal/services"

	"github.com/jmoiron/sqlx"
)

// Deps wires repos into services into handlers, once, at startup.
type Deps struct {
	Auth *services.AuthService

	AuthHandler         *AuthHandler
	CatalogHandler      *CatalogHandler
	APIHandler          *APIHandler
	CartHandler         *CartHandler
	OrderHandler        *OrderHandler
	WishlistHandler     *WishlistHandler
	ReviewHandler       *ReviewHandler
	AccountHandler      *AccountHandler
	NotificationHandler *NotificationHandler
	MerchantHandler     *MerchantHandler
	AdminHandler        *AdminHandler
}

func NewDeps(db *sqlx.DB) *Deps {
	prodRepo := repos.NewProductRepo(db)
	merchRepo := repos.NewMerchantRepo(db)
	collRepo := repos.NewCollectionRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	wishRepo := repos.NewWishlistRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	addrRepo := repos.NewAddressRepo(db)
	payRepo := repos.NewPaymentMethodRepo(db)
	notifRepo := repos.NewNotificationRepo(db)
	userRepo := repos.NewUserRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo, merchRepo)
	collSvc := services.NewCollectionService(collRepo)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	orderSvc := services.NewOrderService(cartRepo, prodRepo, orderRepo, addrRepo, payRepo, notifRepo)
	wishSvc := services.NewWishlistService(wishRepo, prodRepo)
	reviewSvc := services.NewReviewService(reviewRepo, prodRepo)
	accountSvc := services.NewAccountService(addrRepo, payRepo)
	notifSvc := services.NewNotificationService(notifRepo)
	merchantSvc := services.NewMerchantService(merchRepo, prodRepo, orderRepo)
	authSvc := services.NewAuthService(userRepo, cartRepo)

	return &Deps{
		Auth: authSvc,

		AuthHandler:         &AuthHandler{Auth: authSvc},
		CatalogHandler:      &CatalogHandler{Catalog: catalogSvc, Collections: collSvc, Reviews: reviewSvc},
		APIHandler:          &APIHandler{Catalog: catalogSvc, Colls: collSvc},
		CartHandler:         &CartHandler{Cart: cartSvc},
		OrderHandler:        &OrderHandler{Cart: cartSvc, Order: orderSvc, Account: accountSvc},
		WishlistHandler:     &WishlistHandler{Wish: wishSvc},
		ReviewHandler:       &ReviewHandler{Reviews: reviewSvc},
		AccountHandler:      &AccountHandler{Account: accountSvc},
		NotificationHandler: &NotificationHandler{Notifs: notifSvc},
		MerchantHandler:     &MerchantHandler{Merchant: merchantSvc},
		AdminHandler: &AdminHandler{
			Orders:      orderSvc,
			Collections: collSvc,
			OrderRepo:   orderRepo,
			Users:       userRepo,
			Merchants:   merchRepo,
		},
	}
}
