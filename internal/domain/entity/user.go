package entity

import "github.com/shopspring/decimal"

type User struct {
	ID            string          `json:"user_id"`
	Email         string          `json:"email"`
	PhoneNumber   string          `json:"phone_number,omitempty"`
	ShopID        string          `json:"shop_id,omitempty"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
	Favorites     []string        `json:"favorites"`
}

func (u User) IsSeller() bool {
	return u.ShopID != ""
}

// MatchesCredential reports whether identifier is the user's e-mail or phone number.
func (u User) MatchesCredential(identifier string) bool {
	if identifier == "" {
		return false
	}
	return u.Email == identifier || (u.PhoneNumber != "" && u.PhoneNumber == identifier)
}

func (u User) Clone() User {
	out := u
	out.Favorites = append([]string{}, u.Favorites...)
	return out
}

type Shop struct {
	ID          string `json:"shop_id"`
	UserID      string `json:"user_id"`
	Name        string `json:"shop_name"`
	Slug        string `json:"shop_url_slug"`
	Description string `json:"shop_description"`
	AvatarURL   string `json:"profile_picture_url"`
}
