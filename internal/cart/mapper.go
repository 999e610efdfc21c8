package cart

import "quickcheckout/internal/catalog"

// NewLine copies a catalog product into a cart line. The price is captured
// at add time; later catalog changes do not reach existing lines.
func NewLine(p *catalog.Product, quantity int, weightVerified bool) Line {
	line := Line{
		ID:               p.ID,
		Name:             p.Name,
		Price:            p.Price,
		Image:            p.Image,
		Quantity:         quantity,
		IsWeighed:        p.IsWeighed,
		IsWeightVerified: weightVerified,
	}

	if p.Weight != nil {
		w := *p.Weight
		line.Weight = &w
	}
	if p.ExpirationDate != nil {
		d := *p.ExpirationDate
		line.ExpirationDate = &d
	}

	return line
}
