package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// ImageStorage stores product photos and returns their public URL.
type ImageStorage interface {
	Upload(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error)
}

type AddProductParams struct {
	ShopID      string
	Title       string
	Description string
	Price       decimal.Decimal
	Condition   string
	Quantity    int
	Images      []string
	Category    string
	Brand       string
}

type SellerDashboard struct {
	WalletBalance  decimal.Decimal  `json:"wallet_balance"`
	ActiveListings int              `json:"active_listings"`
	SoldItems      int              `json:"sold_items"`
	Listings       []entity.Product `json:"listings"`
}

type Offer struct {
	ProductID    string          `json:"product_id"`
	Amount       decimal.Decimal `json:"amount"`
	MinimumOffer decimal.Decimal `json:"minimum_offer"`
}

type CatalogService interface {
	ListAvailableProducts(ctx context.Context) ([]entity.Product, error)
	GetProduct(ctx context.Context, productID string) (*entity.Product, error)
	ListShopProducts(ctx context.Context, shopID string, onlyAvailable bool) ([]entity.Product, error)
	GetShop(ctx context.Context, shopID string) (*entity.Shop, error)
	GetShopBySlug(ctx context.Context, slug string) (*entity.Shop, error)
	GetUser(ctx context.Context, userID string) (*entity.User, error)
	FindUserByCredential(ctx context.Context, identifier string) (*entity.User, error)
	AddProduct(ctx context.Context, params AddProductParams) (*entity.Product, error)
	UploadProductImage(ctx context.Context, productID, fileName string, r io.Reader, size int64, contentType string) (string, error)
	SetProductStatus(ctx context.Context, productID string, status entity.ProductStatus) error
	SellerDashboard(ctx context.Context, userID string) (*SellerDashboard, error)
	MakeOffer(ctx context.Context, productID string, amount decimal.Decimal) (*Offer, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	shopRepo    repository.ShopRepository
	userRepo    repository.UserRepository
	cache       repository.ProductCache
	cacheTTL    time.Duration
	images      ImageStorage
	log         logger.Logger

	group singleflight.Group
}

// NewCatalogService accepts a nil cache or image storage; the matching
// features are then skipped or reported as unavailable.
func NewCatalogService(
	productRepo repository.ProductRepository,
	shopRepo repository.ShopRepository,
	userRepo repository.UserRepository,
	cache repository.ProductCache,
	cacheTTL time.Duration,
	images ImageStorage,
	log logger.Logger,
) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		shopRepo:    shopRepo,
		userRepo:    userRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		images:      images,
		log:         log,
	}
}

func notFound(err error, what, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", entity.ErrNotFound, what, id)
	}
	return fmt.Errorf("failed to retrieve %s %s: %w", what, id, err)
}

func (s *catalogService) ListAvailableProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := s.productRepo.List(ctx, repository.ListProductsParams{Status: entity.ProductAvailable})
	if err != nil {
		s.log.Errorf("Failed to list available products: %v", err)
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, productID string) (*entity.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, productID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warnf("Product cache read failed for %s: %v", productID, err)
		}
	}

	v, err, _ := s.group.Do(productID, func() (interface{}, error) {
		product, err := s.productRepo.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, product, s.cacheTTL); err != nil {
				s.log.Warnf("Failed to cache product %s: %v", productID, err)
			}
		}
		return product, nil
	})
	if err != nil {
		return nil, notFound(err, "product", productID)
	}
	product := v.(*entity.Product).Clone()
	return &product, nil
}

func (s *catalogService) ListShopProducts(ctx context.Context, shopID string, onlyAvailable bool) ([]entity.Product, error) {
	params := repository.ListProductsParams{ShopID: shopID}
	if onlyAvailable {
		params.Status = entity.ProductAvailable
	}
	products, err := s.productRepo.List(ctx, params)
	if err != nil {
		s.log.Errorf("Failed to list products for shop %s: %v", shopID, err)
		return nil, fmt.Errorf("failed to list shop products: %w", err)
	}
	return products, nil
}

func (s *catalogService) GetShop(ctx context.Context, shopID string) (*entity.Shop, error) {
	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, notFound(err, "shop", shopID)
	}
	return shop, nil
}

func (s *catalogService) GetShopBySlug(ctx context.Context, slug string) (*entity.Shop, error) {
	shop, err := s.shopRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "shop", slug)
	}
	return shop, nil
}

func (s *catalogService) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user", userID)
	}
	return user, nil
}

func (s *catalogService) FindUserByCredential(ctx context.Context, identifier string) (*entity.User, error) {
	identifier = strings.TrimSpace(identifier)
	user, err := s.userRepo.FindByCredential(ctx, identifier)
	if err != nil {
		s.log.Warnf("No user for credential %q: %v", identifier, err)
		return nil, notFound(err, "user", identifier)
	}
	return user, nil
}

func (s *catalogService) AddProduct(ctx context.Context, params AddProductParams) (*entity.Product, error) {
	s.log.Infof("Adding product %q to shop %s", params.Title, params.ShopID)

	if strings.TrimSpace(params.Title) == "" {
		return nil, errors.New("product title cannot be empty")
	}
	if !params.Price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be positive", entity.ErrInvalidPrice)
	}
	if params.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", entity.ErrInvalidQuantity)
	}
	condition, err := entity.ParseCondition(params.Condition)
	if err != nil {
		return nil, err
	}

	shop, err := s.GetShop(ctx, params.ShopID)
	if err != nil {
		return nil, err
	}

	product := &entity.Product{
		ID:              uuid.NewString(),
		ShopID:          shop.ID,
		Title:           strings.TrimSpace(params.Title),
		Description:     params.Description,
		Price:           params.Price,
		Condition:       condition,
		Quantity:        params.Quantity,
		Status:          entity.ProductAvailable,
		Images:          append([]string{}, params.Images...),
		Category:        params.Category,
		Brand:           params.Brand,
		SellerName:      shop.Name,
		SellerAvatarURL: shop.AvatarURL,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		s.log.Errorf("Failed to save product for shop %s: %v", params.ShopID, err)
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	s.log.Infof("Product %s added to shop %s", product.ID, product.ShopID)
	return product, nil
}

func (s *catalogService) UploadProductImage(ctx context.Context, productID, fileName string, r io.Reader, size int64, contentType string) (string, error) {
	if s.images == nil {
		return "", errors.New("image storage is not configured")
	}
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return "", notFound(err, "product", productID)
	}

	objectName := fmt.Sprintf("products/%s/%s%s", productID, uuid.NewString(), strings.ToLower(path.Ext(fileName)))
	url, err := s.images.Upload(ctx, objectName, r, size, contentType)
	if err != nil {
		s.log.Errorf("Failed to upload image for product %s: %v", productID, err)
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if err := s.productRepo.AddImage(ctx, productID, url); err != nil {
		return "", notFound(err, "product", productID)
	}
	s.invalidate(ctx, productID)
	return url, nil
}

func (s *catalogService) SetProductStatus(ctx context.Context, productID string, status entity.ProductStatus) error {
	if err := s.productRepo.UpdateStatus(ctx, productID, status); err != nil {
		return notFound(err, "product", productID)
	}
	s.invalidate(ctx, productID)
	return nil
}

func (s *catalogService) invalidate(ctx context.Context, productID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, productID); err != nil {
		s.log.Warnf("Failed to invalidate cached product %s: %v", productID, err)
	}
}

func (s *catalogService) SellerDashboard(ctx context.Context, userID string) (*SellerDashboard, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsSeller() {
		return nil, fmt.Errorf("%w: user %s has no shop", entity.ErrNotFound, userID)
	}

	listings, err := s.ListShopProducts(ctx, user.ShopID, false)
	if err != nil {
		return nil, err
	}

	d := &SellerDashboard{WalletBalance: user.WalletBalance, Listings: listings}
	for _, p := range listings {
		switch p.Status {
		case entity.ProductAvailable:
			d.ActiveListings++
		case entity.ProductSold:
			d.SoldItems++
		}
	}
	return d, nil
}

func (s *catalogService) MakeOffer(ctx context.Context, productID string, amount decimal.Decimal) (*Offer, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := entity.ValidateOffer(product.Price, amount); err != nil {
		return nil, err
	}
	s.log.Infof("Offer of %s accepted for delivery to seller of product %s", amount.StringFixed(2), productID)
	return &Offer{ProductID: productID, Amount: amount, MinimumOffer: entity.MinimumOffer(product.Price)}, nil
}
