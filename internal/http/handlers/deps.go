package handlers

import (
	"reliefmarket/internal/auth"
	"reliefmarket/internal/config"
	"reliefmarket/internal/repos"
	"reliefmarket/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	Tokens          *auth.JWTService
	AuthHandler     *AuthHandler
	ProductHandler  *ProductHandler
	OrderHandler    *OrderHandler
	LocationHandler *LocationHandler
	AdminHandler    *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	userRepo := repos.NewUserRepo(db)
	productRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	zoneRepo := repos.NewZoneRepo(db)
	locationRepo := repos.NewLocationRepo(db)

	tokens := auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	eligibilitySvc := services.NewEligibilityService(zoneRepo, cfg.LegacyCityMatch)
	authSvc := services.NewAuthService(userRepo, tokens, eligibilitySvc)
	catalogSvc := services.NewCatalogService(productRepo)
	orderSvc := services.NewOrderService(productRepo, orderRepo, locationRepo)
	statsSvc := &services.StatsService{
		Users:     userRepo,
		Products:  productRepo,
		Orders:    orderRepo,
		Zones:     zoneRepo,
		Locations: locationRepo,
	}

	return &Deps{
		Tokens:          tokens,
		AuthHandler:     &AuthHandler{Auth: authSvc},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc},
		OrderHandler:    &OrderHandler{Orders: orderSvc},
		LocationHandler: &LocationHandler{Locations: locationRepo},
		AdminHandler: &AdminHandler{
			Zones:     zoneRepo,
			Locations: locationRepo,
			Users:     userRepo,
			Products:  productRepo,
			Stats:     statsSvc,
		},
	}
}
