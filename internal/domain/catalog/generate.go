package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/solkim/tracksuit-store/internal/domain/cart"
)

// Every tracksuit sells at a flat unit price.
var unitPrice = decimal.NewFromInt(10)

// Generate builds the full fixed catalog. The image numbering mirrors the
// photo sets the store actually ships: kids 1-34, ladies 1-14 and 20-46
// (15-19 were pulled), mens 1-36.
func Generate() []Product {
	var products []Product

	for i := 1; i <= 34; i++ {
		products = append(products, Product{
			ID:          fmt.Sprintf("kids-%d", i),
			Name:        fmt.Sprintf("Kids Tracksuit %d", i),
			Category:    cart.CategoryKids,
			Image:       fmt.Sprintf("Kids/Kid %d.png", i),
			Description: fmt.Sprintf("High-quality kids tracksuit #%d. Comfortable, stylish, and perfect for active children.", i),
			Price:       unitPrice,
			Sizes:       []string{"XS", "S", "M", "L"},
		})
	}

	addLadies := func(i int) {
		products = append(products, Product{
			ID:          fmt.Sprintf("ladies-%d", i),
			Name:        fmt.Sprintf("Ladies Tracksuit %d", i),
			Category:    cart.CategoryLadies,
			Image:       fmt.Sprintf("Ladies/G%d.png", i),
			Description: fmt.Sprintf("Elegant ladies tracksuit #%d. Designed for comfort and style.", i),
			Price:       unitPrice,
			Sizes:       []string{"XS", "S", "M", "L", "XL"},
		})
	}
	for i := 1; i <= 14; i++ {
		addLadies(i)
	}
	for i := 20; i <= 46; i++ {
		addLadies(i)
	}

	for i := 1; i <= 36; i++ {
		products = append(products, Product{
			ID:          fmt.Sprintf("mens-%d", i),
			Name:        fmt.Sprintf("Men's Tracksuit %d", i),
			Category:    cart.CategoryMens,
			Image:       fmt.Sprintf("Mens/M%d.png", i),
			Description: fmt.Sprintf("Professional men's tracksuit #%d. Durable, comfortable, and stylish.", i),
			Price:       unitPrice,
			Sizes:       []string{"S", "M", "L", "XL", "XXL"},
		})
	}

	return products
}
