package seed

import (
	"context"
	"fmt"

	"elitestore-api/internal/domain"
	productrepo "elitestore-api/internal/repository/product"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Apply inserts the storefront catalog for manual testing. It is idempotent;
// rerunning refreshes the same rows.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []domain.Product{
		{
			ID:          "1",
			Name:        "Premium Wireless Headphones",
			PriceCents:  299_00,
			Category:    "Electronics",
			Description: "High-quality wireless headphones with noise cancellation",
			ImageURL:    "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=500",
		},
		{
			ID:          "2",
			Name:        "Designer Leather Bag",
			PriceCents:  199_00,
			Category:    "Fashion",
			Description: "Elegant leather bag perfect for everyday use",
			ImageURL:    "https://images.unsplash.com/photo-1548036328-c9fa89d128fa?w=500",
		},
		{
			ID:          "3",
			Name:        "Smart Watch Pro",
			PriceCents:  399_00,
			Category:    "Electronics",
			Description: "Advanced smartwatch with health monitoring features",
			ImageURL:    "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=500",
		},
		{
			ID:          "4",
			Name:        "Minimalist Desk Lamp",
			PriceCents:  89_00,
			Category:    "Home & Garden",
			Description: "Modern LED desk lamp with adjustable brightness",
			ImageURL:    "https://images.unsplash.com/photo-1507473885765-e6ed057f782c?w=500",
		},
	}

	repo := productrepo.NewPostgres(pool, nil)
	for _, p := range products {
		if _, err := repo.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
	}
	return nil
}
