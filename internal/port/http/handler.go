package http

import (
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/service"
	"github.com/shopspring/decimal"
)

type Handler struct {
	catalog      service.CatalogService
	orders       service.OrderLedger
	favorites    service.FavoritesManager
	descriptions service.DescriptionService
	tokens       *TokenIssuer
	shippingFee  decimal.Decimal
	maxImageSize int64
	log          logger.Logger
}

type HandlerDeps struct {
	Catalog      service.CatalogService
	Orders       service.OrderLedger
	Favorites    service.FavoritesManager
	Descriptions service.DescriptionService
	Tokens       *TokenIssuer
	ShippingFee  decimal.Decimal
	Log          logger.Logger
}

const defaultMaxImageSize = 10 << 20

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		catalog:      deps.Catalog,
		orders:       deps.Orders,
		favorites:    deps.Favorites,
		descriptions: deps.Descriptions,
		tokens:       deps.Tokens,
		shippingFee:  deps.ShippingFee,
		maxImageSize: defaultMaxImageSize,
		log:          deps.Log,
	}
}
