package mongo

import (
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/domain/entity"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Money is stored as Decimal128 so amounts survive the round trip exactly.

type productDocument struct {
	ID              string               `bson:"_id"`
	ShopID          string               `bson:"shop_id"`
	Title           string               `bson:"title"`
	Description     string               `bson:"description"`
	Price           primitive.Decimal128 `bson:"price"`
	Condition       string               `bson:"condition"`
	Quantity        int                  `bson:"quantity"`
	Status          string               `bson:"status"`
	Images          []string             `bson:"images"`
	Category        string               `bson:"category"`
	Brand           string               `bson:"brand"`
	SellerName      string               `bson:"seller_name"`
	SellerAvatarURL string               `bson:"seller_avatar_url"`
	CreatedAt       time.Time            `bson:"created_at,omitempty"`
}

type orderDocument struct {
	ID                 string               `bson:"_id"`
	BuyerID            string               `bson:"buyer_id"`
	Product            productDocument      `bson:"product"`
	SellerShopID       string               `bson:"seller_shop_id"`
	Quantity           int                  `bson:"quantity"`
	PurchasePrice      primitive.Decimal128 `bson:"purchase_price"`
	ShippingFee        primitive.Decimal128 `bson:"shipping_fee"`
	BuyerProtectionFee primitive.Decimal128 `bson:"buyer_protection_fee"`
	TotalPrice         primitive.Decimal128 `bson:"total_price"`
	Status             string               `bson:"status"`
	ShippingAddress    string               `bson:"shipping_address"`
	TrackingNumber     string               `bson:"tracking_number,omitempty"`
	CreatedAt          time.Time            `bson:"created_at"`
	UpdatedAt          time.Time            `bson:"updated_at"`
	Version            int                  `bson:"version"`
}

type userDocument struct {
	ID            string               `bson:"_id"`
	Email         string               `bson:"email"`
	PhoneNumber   string               `bson:"phone_number,omitempty"`
	ShopID        string               `bson:"shop_id,omitempty"`
	WalletBalance primitive.Decimal128 `bson:"wallet_balance"`
	Favorites     []string             `bson:"favorites"`
}

type shopDocument struct {
	ID          string `bson:"_id"`
	UserID      string `bson:"user_id"`
	Name        string `bson:"shop_name"`
	Slug        string `bson:"shop_url_slug"`
	Description string `bson:"shop_description"`
	AvatarURL   string `bson:"profile_picture_url"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("amount %s does not fit decimal128: %w", d, err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("stored amount %s is not a decimal: %w", v, err)
	}
	return d, nil
}

func toProductDocument(p *entity.Product, createdAt time.Time) (*productDocument, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return nil, err
	}
	return &productDocument{
		ID:              p.ID,
		ShopID:          p.ShopID,
		Title:           p.Title,
		Description:     p.Description,
		Price:           price,
		Condition:       p.Condition.String(),
		Quantity:        p.Quantity,
		Status:          string(p.Status),
		Images:          append([]string{}, p.Images...),
		Category:        p.Category,
		Brand:           p.Brand,
		SellerName:      p.SellerName,
		SellerAvatarURL: p.SellerAvatarURL,
		CreatedAt:       createdAt,
	}, nil
}

func toDomainProduct(d *productDocument) (*entity.Product, error) {
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return nil, err
	}
	condition, err := entity.ParseCondition(d.Condition)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", d.ID, err)
	}
	return &entity.Product{
		ID:              d.ID,
		ShopID:          d.ShopID,
		Title:           d.Title,
		Description:     d.Description,
		Price:           price,
		Condition:       condition,
		Quantity:        d.Quantity,
		Status:          entity.ProductStatus(d.Status),
		Images:          append([]string{}, d.Images...),
		Category:        d.Category,
		Brand:           d.Brand,
		SellerName:      d.SellerName,
		SellerAvatarURL: d.SellerAvatarURL,
	}, nil
}

func toOrderDocument(o *entity.Order) (*orderDocument, error) {
	product, err := toProductDocument(&o.Product, time.Time{})
	if err != nil {
		return nil, err
	}
	amounts := make([]primitive.Decimal128, 4)
	for i, d := range []decimal.Decimal{o.PurchasePrice, o.ShippingFee, o.BuyerProtectionFee, o.TotalPrice} {
		if amounts[i], err = toDecimal128(d); err != nil {
			return nil, fmt.Errorf("order %s: %w", o.ID, err)
		}
	}
	return &orderDocument{
		ID:                 o.ID,
		BuyerID:            o.BuyerID,
		Product:            *product,
		SellerShopID:       o.SellerShopID,
		Quantity:           o.Quantity,
		PurchasePrice:      amounts[0],
		ShippingFee:        amounts[1],
		BuyerProtectionFee: amounts[2],
		TotalPrice:         amounts[3],
		Status:             string(o.Status),
		ShippingAddress:    o.ShippingAddress,
		TrackingNumber:     o.TrackingNumber,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
		Version:            o.Version,
	}, nil
}

func toDomainOrder(d *orderDocument) (*entity.Order, error) {
	product, err := toDomainProduct(&d.Product)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", d.ID, err)
	}
	status, err := entity.ParseOrderStatus(d.Status)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", d.ID, err)
	}
	amounts := make([]decimal.Decimal, 4)
	for i, v := range []primitive.Decimal128{d.PurchasePrice, d.ShippingFee, d.BuyerProtectionFee, d.TotalPrice} {
		if amounts[i], err = fromDecimal128(v); err != nil {
			return nil, fmt.Errorf("order %s: %w", d.ID, err)
		}
	}
	return &entity.Order{
		ID:                 d.ID,
		BuyerID:            d.BuyerID,
		Product:            *product,
		SellerShopID:       d.SellerShopID,
		Quantity:           d.Quantity,
		PurchasePrice:      amounts[0],
		ShippingFee:        amounts[1],
		BuyerProtectionFee: amounts[2],
		TotalPrice:         amounts[3],
		Status:             status,
		ShippingAddress:    d.ShippingAddress,
		TrackingNumber:     d.TrackingNumber,
		CreatedAt:          d.CreatedAt.UTC(),
		UpdatedAt:          d.UpdatedAt.UTC(),
		Version:            d.Version,
	}, nil
}

func toUserDocument(u *entity.User) (*userDocument, error) {
	wallet, err := toDecimal128(u.WalletBalance)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", u.ID, err)
	}
	favorites := u.Favorites
	if favorites == nil {
		favorites = []string{}
	}
	return &userDocument{
		ID:            u.ID,
		Email:         u.Email,
		PhoneNumber:   u.PhoneNumber,
		ShopID:        u.ShopID,
		WalletBalance: wallet,
		Favorites:     append([]string{}, favorites...),
	}, nil
}

func toDomainUser(d *userDocument) (*entity.User, error) {
	wallet, err := fromDecimal128(d.WalletBalance)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", d.ID, err)
	}
	return &entity.User{
		ID:            d.ID,
		Email:         d.Email,
		PhoneNumber:   d.PhoneNumber,
		ShopID:        d.ShopID,
		WalletBalance: wallet,
		Favorites:     append([]string{}, d.Favorites...),
	}, nil
}

func toShopDocument(s *entity.Shop) *shopDocument {
	return &shopDocument{
		ID:          s.ID,
		UserID:      s.UserID,
		Name:        s.Name,
		Slug:        s.Slug,
		Description: s.Description,
		AvatarURL:   s.AvatarURL,
	}
}

func toDomainShop(d *shopDocument) *entity.Shop {
	return &entity.Shop{
		ID:          d.ID,
		UserID:      d.UserID,
		Name:        d.Name,
		Slug:        d.Slug,
		Description: d.Description,
		AvatarURL:   d.AvatarURL,
	}
}
