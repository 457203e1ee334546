package cart

// Cart maps a product identifier to its desired quantity. Absence of a key
// means "not in cart"; a stored quantity is always >= 1.
type Cart map[string]int

// TotalItemCount sums all quantities, feeding the cart-count indicator.
func (c Cart) TotalItemCount() int {
	total := 0
	for _, qty := range c {
		total += qty
	}
	return total
}

// IsEmpty reports whether the cart holds no entries.
func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// Clone returns an independent copy so callers cannot mutate stored state.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	for id, qty := range c {
		out[id] = qty
	}
	return out
}

// normalize drops entries that violate the quantity invariant. Persisted
// state written by older or foreign code may carry zero or negative values.
func (c Cart) normalize() Cart {
	for id, qty := range c {
		if qty < 1 {
			delete(c, id)
		}
	}
	return c
}
