// Package shipping models the delivery methods a shop offers and the options
// quoted for a destination.
package shipping
