package domain

import "context"

// CartLine is one (product, package, quantity) entry in a shopper's cart.
// At most one line exists per (ProductID, PackageID) pair; repeated adds
// increment Quantity instead of duplicating the line.
type CartLine struct {
	ProductID string `json:"product_id"`
	PackageID string `json:"package_id"`
	Quantity  int    `json:"quantity"`
}

// CartLines is the full line set of one cart. All mutations return the
// updated set; the zero value is a valid empty cart.
type CartLines []CartLine

// Add increments the quantity of the matching line, or appends a new line
// with quantity 1. Calling it N times for the same key yields one line
// with quantity N.
func (ls CartLines) Add(productID, packageID string) CartLines {
	for i := range ls {
		if ls[i].ProductID == productID && ls[i].PackageID == packageID {
			ls[i].Quantity++
			return ls
		}
	}
	return append(ls, CartLine{ProductID: productID, PackageID: packageID, Quantity: 1})
}

// Remove deletes the matching line. Removing an absent key is a no-op.
func (ls CartLines) Remove(productID, packageID string) CartLines {
	for i := range ls {
		if ls[i].ProductID == productID && ls[i].PackageID == packageID {
			return append(ls[:i], ls[i+1:]...)
		}
	}
	return ls
}

// SetQuantity sets the line's quantity. A quantity of zero or less removes
// the line. Setting quantity on an absent key is a no-op.
func (ls CartLines) SetQuantity(productID, packageID string, quantity int) CartLines {
	if quantity <= 0 {
		return ls.Remove(productID, packageID)
	}
	for i := range ls {
		if ls[i].ProductID == productID && ls[i].PackageID == packageID {
			ls[i].Quantity = quantity
			return ls
		}
	}
	return ls
}

// Count returns the sum of quantities across all lines.
func (ls CartLines) Count() int {
	total := 0
	for _, l := range ls {
		total += l.Quantity
	}
	return total
}

// CartRepository persists the full line set per user. Implementations must
// treat a malformed stored payload as an empty cart, not an error.
type CartRepository interface {
	Load(ctx context.Context, userID string) (CartLines, error)
	Save(ctx context.Context, userID string, lines CartLines) error
	Delete(ctx context.Context, userID string) error
}
