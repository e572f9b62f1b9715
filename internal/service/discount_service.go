package service

import (
	"context"
	"fmt"
	"time"

	"price-manager/internal/discount"
	"price-manager/internal/entity"
)

// DiscountService manages the discount schedule of products.
type DiscountService struct {
	repo DiscountStore
	now  func() time.Time
}

func NewDiscountService(repo DiscountStore) *DiscountService {
	return &DiscountService{repo: repo, now: time.Now}
}

// GetProductDiscounts returns a product's discounts and the one active now.
func (s *DiscountService) GetProductDiscounts(ctx context.Context, productID string) (*entity.ProductDiscounts, error) {
	discounts, err := s.repo.GetProductDiscounts(ctx, productID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting discounts for product %s", productID)
		return nil, err
	}
	return &entity.ProductDiscounts{
		ProductID:      productID,
		Discounts:      discounts,
		ActiveDiscount: discount.Active(discounts, s.now()),
	}, nil
}

func validateDiscounts(discounts []discount.Discount) error {
	var problems []string
	for i, d := range discounts {
		for _, p := range discount.Validate(d) {
			problems = append(problems, fmt.Sprintf("discount %d: %s", i, p))
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// SetProductDiscounts validates and replaces a product's discounts. Nothing
// is stored if any discount is invalid.
func (s *DiscountService) SetProductDiscounts(ctx context.Context, productID string, discounts []discount.Discount) (*entity.ProductDiscounts, error) {
	if err := validateDiscounts(discounts); err != nil {
		return nil, err
	}

	if discounts == nil {
		discounts = []discount.Discount{}
	}
	if err := s.repo.SetProductDiscounts(ctx, productID, discounts); err != nil {
		logger.Error().Err(err).Msgf("Error saving discounts for product %s", productID)
		return nil, err
	}
	return &entity.ProductDiscounts{
		ProductID:      productID,
		Discounts:      discounts,
		ActiveDiscount: discount.Active(discounts, s.now()),
	}, nil
}

// BatchSetDiscounts gives every listed product the same discounts, or every
// product with discounts when none are listed. All products are updated or
// none are.
func (s *DiscountService) BatchSetDiscounts(ctx context.Context, req entity.BatchDiscountsRequest) (*entity.BatchDiscountsResult, error) {
	if err := validateDiscounts(req.Discounts); err != nil {
		return nil, err
	}
	discounts := req.Discounts
	if discounts == nil {
		discounts = []discount.Discount{}
	}

	ids := req.ProductIDs
	if len(ids) == 0 {
		var err error
		if ids, err = s.repo.ListProductIDs(ctx); err != nil {
			logger.Error().Err(err).Msg("Error listing products with discounts")
			return nil, err
		}
	}
	ids, err := uniqueProductIDs(ids)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetDiscountsForProducts(ctx, ids, discounts); err != nil {
		logger.Error().Err(err).Int("products", len(ids)).Msg("Error saving discounts for products")
		return nil, err
	}
	return &entity.BatchDiscountsResult{
		Success:         true,
		TotalProducts:   len(ids),
		UpdatedProducts: len(ids),
		DiscountsCount:  len(discounts),
	}, nil
}

func uniqueProductIDs(ids []string) ([]string, error) {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("%w: product_ids must not contain empty ids", ErrInvalidRequest)
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}
