package category

import (
	"context"

	"elitestore-api/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Category, error)
}
