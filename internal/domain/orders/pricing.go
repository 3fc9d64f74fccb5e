package orders

// LineUnitPrice resolves the per-unit price of a line. Composite lines fold
// their flavor prices with the declared strategy; plain lines fall back to the
// base price. Missing numeric fields count as 0, so this never fails.
func LineUnitPrice(line OrderLine) Money {
	if len(line.Flavors) == 0 {
		return line.Price
	}

	var sum, max Money
	for _, f := range line.Flavors {
		sum += f.Price
		if f.Price > max {
			max = f.Price
		}
	}

	switch line.Pricing {
	case PricingSum:
		return sum
	case PricingMax:
		return max
	default:
		// average, rounded half-up to whole centavos
		n := Money(len(line.Flavors))
		return (sum*2 + n) / (n * 2)
	}
}

// OrderTotal computes the order total: for each line, unit price plus
// complement totals, multiplied by line quantity, summed across lines.
func OrderTotal(order OrderSnapshot) Money {
	var total Money
	for _, line := range order.Lines {
		subtotal := LineUnitPrice(line)
		for _, c := range line.Complements {
			subtotal += c.Price * Money(c.Quantity)
		}
		total += subtotal * Money(line.Quantity)
	}
	return total
}
