package memory

import (
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Dataset is a complete set of demo records.
type Dataset struct {
	Users    []entity.User
	Shops    []entity.Shop
	Products []entity.Product
	Orders   []entity.Order
}

// SeedDataset returns fresh copies of the demo storefront data on every call.
func SeedDataset() Dataset {
	users := []entity.User{
		{ID: "user1", Email: "seller@example.com", PhoneNumber: "0821234567", ShopID: "shop1", WalletBalance: decimal.RequireFromString("1250.00"), Favorites: []string{"prod3"}},
		{ID: "user2", Email: "buyer@example.com", WalletBalance: decimal.RequireFromString("200.00"), Favorites: []string{}},
		{ID: "user3", Email: "chic@example.com", ShopID: "shop2", WalletBalance: decimal.Zero, Favorites: []string{}},
	}

	shops := []entity.Shop{
		{
			ID:          "shop1",
			UserID:      "user1",
			Name:        "Retro Threads",
			Slug:        "retro-threads",
			AvatarURL:   "https://picsum.photos/seed/shop1/100/100",
			Description: "Your one-stop shop for curated vintage and retro fashion. Find unique pieces to express your style.",
		},
		{
			ID:          "shop2",
			UserID:      "user3",
			Name:        "Chic Finds",
			Slug:        "chic-finds",
			AvatarURL:   "https://picsum.photos/seed/shop2/100/100",
			Description: "Discover elegant and minimalist fashion essentials. High-quality pre-loved items for the modern wardrobe.",
		},
	}

	products := []entity.Product{
		{
			ID:              "prod1",
			ShopID:          "shop1",
			Title:           "Vintage Denim Jacket",
			Description:     "A beautifully preserved denim jacket from the 90s. Perfect for a retro look. Features classic button closures and two chest pockets. Lightly worn, adding to its authentic vintage character.",
			Price:           decimal.RequireFromString("750.00"),
			Condition:       entity.ConditionUsedGood,
			Quantity:        1,
			Status:          entity.ProductAvailable,
			Images:          []string{"https://picsum.photos/seed/prod1/800/800", "https://picsum.photos/seed/prod1_2/800/800"},
			Category:        "Women",
			Brand:           "Levi's",
			SellerName:      "Retro Threads",
			SellerAvatarURL: "https://picsum.photos/seed/shop1/100/100",
		},
		{
			ID:              "prod2",
			ShopID:          "shop1",
			Title:           "Brand New Nike Air Max",
			Description:     "Never worn, in original box. Latest model with superior cushioning and sleek design. Color: Phantom Black. Size: UK 9.",
			Price:           decimal.RequireFromString("2200.00"),
			Condition:       entity.ConditionNew,
			Quantity:        1,
			Status:          entity.ProductAvailable,
			Images:          []string{"https://picsum.photos/seed/prod2/800/800", "https://picsum.photos/seed/prod2_2/800/800", "https://picsum.photos/seed/prod2_3/800/800"},
			Category:        "Men",
			Brand:           "Nike",
			SellerName:      "Retro Threads",
			SellerAvatarURL: "https://picsum.photos/seed/shop1/100/100",
		},
		{
			ID:              "prod3",
			ShopID:          "shop2",
			Title:           "Minimalist Leather Handbag",
			Description:     "Elegant and simple handbag from a high-end brand. Used like new, no scratches or marks. Comes with original dust bag.",
			Price:           decimal.RequireFromString("1500.00"),
			Condition:       entity.ConditionUsedLikeNew,
			Quantity:        1,
			Status:          entity.ProductAvailable,
			Images:          []string{"https://picsum.photos/seed/prod3/800/800"},
			Category:        "Women",
			Brand:           "Zara",
			SellerName:      "Chic Finds",
			SellerAvatarURL: "https://picsum.photos/seed/shop2/100/100",
		},
		{
			ID:              "prod4",
			ShopID:          "shop2",
			Title:           "Cozy Wool Scarf",
			Description:     "A very warm and stylish scarf for winter. Good condition with some minor pilling.",
			Price:           decimal.RequireFromString("250.00"),
			Condition:       entity.ConditionUsedGood,
			Quantity:        1,
			Status:          entity.ProductSold,
			Images:          []string{"https://picsum.photos/seed/prod4/800/800"},
			Category:        "Kids",
			Brand:           "Unbranded",
			SellerName:      "Chic Finds",
			SellerAvatarURL: "https://picsum.photos/seed/shop2/100/100",
		},
	}

	orders := []entity.Order{
		{
			ID:                 "order1",
			BuyerID:            "user2",
			Product:            products[3].Clone(),
			SellerShopID:       "shop2",
			Quantity:           1,
			PurchasePrice:      decimal.RequireFromString("250.00"),
			ShippingFee:        decimal.RequireFromString("60.00"),
			BuyerProtectionFee: decimal.RequireFromString("27.45"),
			TotalPrice:         decimal.RequireFromString("337.45"),
			Status:             entity.StatusCompleted,
			ShippingAddress:    "123 Buyer St, Cape Town, 8001",
			TrackingNumber:     "PAXI123456789",
			CreatedAt:          time.Date(2023, 10, 15, 14, 48, 0, 0, time.UTC),
			UpdatedAt:          time.Date(2023, 10, 15, 14, 48, 0, 0, time.UTC),
			Version:            1,
		},
		{
			ID:                 "order2",
			BuyerID:            "user2",
			Product:            products[0].Clone(),
			SellerShopID:       "shop1",
			Quantity:           1,
			PurchasePrice:      decimal.RequireFromString("700.00"),
			ShippingFee:        decimal.RequireFromString("60.00"),
			BuyerProtectionFee: decimal.RequireFromString("49.95"),
			TotalPrice:         decimal.RequireFromString("809.95"),
			Status:             entity.StatusShipped,
			ShippingAddress:    "Pudo Locker #55, Johannesburg",
			TrackingNumber:     "PUDO987654321",
			CreatedAt:          time.Date(2023, 10, 28, 9, 12, 0, 0, time.UTC),
			UpdatedAt:          time.Date(2023, 10, 28, 9, 12, 0, 0, time.UTC),
			Version:            1,
		},
	}

	return Dataset{Users: users, Shops: shops, Products: products, Orders: orders}
}

// Repositories bundles memory repositories built from one dataset.
type Repositories struct {
	Orders   *OrderRepository
	Products *ProductRepository
	Users    *UserRepository
	Shops    *ShopRepository
}

func NewRepositories(ds Dataset, userOpts ...UserRepositoryOption) Repositories {
	return Repositories{
		Orders:   NewOrderRepository(ds.Orders...),
		Products: NewProductRepository(ds.Products...),
		Users:    NewUserRepository(ds.Users, userOpts...),
		Shops:    NewShopRepository(ds.Shops...),
	}
}
