// Package catalog models what a buyer can put into a checkout: shops, their
// products and the SKUs (purchasable variants) of those products.
//
// Checkout never loads the three entities separately. It reads a Listing, the
// joined view of one SKU with its product and shop, and asks it two questions:
// is it sellable, and is there enough stock.
package catalog
