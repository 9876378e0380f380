package memory

import (
	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/voucher"
)

// Shop identifies a seeded shop.
type Shop struct {
	ID       kernel.UUID
	SellerID kernel.UUID
	Name     string
}

// NewShop returns an active shop with fresh identifiers.
func NewShop(name string) Shop {
	return Shop{ID: kernel.NewUUID(), SellerID: kernel.NewUUID(), Name: name}
}

// Listing builds a sellable SKU of its own product in s.
func (s Shop) Listing(name string, price int64, stock int) catalog.Listing {
	return catalog.Listing{
		SKUID:         kernel.NewUUID(),
		SKUName:       name,
		SKUStatus:     catalog.SKUActive,
		CostPrice:     price / 2,
		Stock:         stock,
		WeightGrams:   500,
		ProductID:     kernel.NewUUID(),
		ProductName:   name,
		ProductStatus: catalog.ProductActive,
		ProductPrice:  price,
		ShopID:        s.ID,
		ShopName:      s.Name,
		ShopStatus:    catalog.ShopActive,
		SellerID:      s.SellerID,
	}
}

// Voucher builds an active fixed-amount shop voucher of s.
func (s Shop) Voucher(code string, amount int64) voucher.Voucher {
	v := PlatformVoucher(code, amount)
	v.Scope = voucher.ScopeShop
	shopID := s.ID
	v.ShopID = &shopID
	return v
}

// PlatformVoucher builds an active fixed-amount platform voucher.
func PlatformVoucher(code string, amount int64) voucher.Voucher {
	return voucher.Voucher{
		ID:     kernel.NewUUID(),
		Code:   code,
		Scope:  voucher.ScopePlatform,
		Type:   voucher.Fixed,
		Value:  amount,
		Active: true,
	}
}

// Address returns a complete address in Ho Chi Minh City.
func Address() kernel.Address {
	return kernel.Address{
		FullName: "Nguyen Van A",
		Phone:    "0901234567",
		Line1:    "12 Nguyen Hue",
		District: "District 1",
		City:     "Ho Chi Minh City",
		Province: "Ho Chi Minh",
		Country:  kernel.DefaultCountry,
	}
}
