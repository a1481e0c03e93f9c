package domain

// LineItem is one product entry in a cart. A cart holds at most one line
// item per product id.
type LineItem struct {
	ProductID      int64  `json:"product_id"`
	Name           string `json:"name"`
	UnitPricePaise int64  `json:"unit_price_paise"`
	Quantity       int    `json:"quantity"`
}

// LineSubtotal returns unit price times quantity for this line.
func (li LineItem) LineSubtotal() int64 {
	return li.UnitPricePaise * int64(li.Quantity)
}

// Cart is an ordered collection of line items owned by one customer
// session. It is a plain value: every operation returns a new cart and
// leaves the receiver untouched, and totals are derived on every read
// rather than cached.
type Cart struct {
	Items []LineItem `json:"items"`
}

// AddItem returns a cart with quantity added for the given product,
// appending a new line item if the product is not yet present.
func (c Cart) AddItem(productID int64, name string, unitPricePaise int64, quantity int) Cart {
	if quantity <= 0 {
		return c.clone()
	}

	next := c.clone()
	for i, li := range next.Items {
		if li.ProductID == productID {
			next.Items[i].Quantity += quantity
			return next
		}
	}

	next.Items = append(next.Items, LineItem{
		ProductID:      productID,
		Name:           name,
		UnitPricePaise: unitPricePaise,
		Quantity:       quantity,
	})
	return next
}

// SetQuantity returns a cart with the line item's quantity replaced.
// A quantity of zero or less removes the line item. Unknown product ids
// are a no-op.
func (c Cart) SetQuantity(productID int64, quantity int) Cart {
	if quantity <= 0 {
		return c.RemoveItem(productID)
	}

	next := c.clone()
	for i, li := range next.Items {
		if li.ProductID == productID {
			next.Items[i].Quantity = quantity
			break
		}
	}
	return next
}

// RemoveItem returns a cart without the given product's line item.
// Unknown product ids are a no-op.
func (c Cart) RemoveItem(productID int64) Cart {
	next := Cart{Items: make([]LineItem, 0, len(c.Items))}
	for _, li := range c.Items {
		if li.ProductID != productID {
			next.Items = append(next.Items, li)
		}
	}
	return next
}

// Subtotal returns the sum of line subtotals in paise.
func (c Cart) Subtotal() int64 {
	var total int64
	for _, li := range c.Items {
		total += li.LineSubtotal()
	}
	return total
}

// Count returns the total number of units across all line items.
func (c Cart) Count() int {
	var count int
	for _, li := range c.Items {
		count += li.Quantity
	}
	return count
}

// IsEmpty reports whether the cart holds no units.
func (c Cart) IsEmpty() bool {
	return c.Count() == 0
}

func (c Cart) clone() Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}
