package catalog

// ShopStatus is the moderation state of a shop. Only ACTIVE shops sell.
type ShopStatus string

const (
	ShopPending   ShopStatus = "PENDING"
	ShopActive    ShopStatus = "ACTIVE"
	ShopSuspended ShopStatus = "SUSPENDED"
	ShopHidden    ShopStatus = "HIDDEN"
	ShopBanned    ShopStatus = "BANNED"
	ShopRejected  ShopStatus = "REJECTED"
)

// ProductStatus is the publication state of a product. Only ACTIVE products sell.
type ProductStatus string

const (
	ProductDraft  ProductStatus = "DRAFT"
	ProductActive ProductStatus = "ACTIVE"
	ProductHidden ProductStatus = "HIDDEN"
	ProductBanned ProductStatus = "BANNED"
)

// SKUStatus is the lifecycle state of a SKU.
type SKUStatus string

const (
	SKUActive SKUStatus = "ACTIVE"
	SKUHidden SKUStatus = "HIDDEN"
)
