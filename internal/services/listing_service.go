package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"kasiBack/internal/models"
	"kasiBack/internal/repositories"
	"kasiBack/utils"
)

const (
	cachePremiumKey  = "listings:premium"
	cacheStandardKey = "listings:standard"
	listingCacheTTL  = time.Minute
)

// ListingService fronts the listing repository with validation and a
// best-effort redis cache for the home page lists. Cache failures fall
// through to the database and never fail a request.
type ListingService struct {
	ListingRepo *repositories.ListingRepository
	Cache       *redis.Client
}

func (s *ListingService) CreateListing(ctx context.Context, listing models.Listing) (models.Listing, error) {
	if err := models.ValidateListing(listing); err != nil {
		return models.Listing{}, err
	}
	listing.PaymentStatus = models.PaymentStatusPending
	created, err := s.ListingRepo.CreateListing(ctx, listing)
	if err != nil {
		return models.Listing{}, err
	}
	s.invalidate(ctx)
	return created, nil
}

func (s *ListingService) GetListingByID(ctx context.Context, id int) (models.Listing, error) {
	return s.ListingRepo.GetListingByID(ctx, id)
}

// HomeListings returns the premium section followed by the standard section.
func (s *ListingService) HomeListings(ctx context.Context) ([]models.Listing, []models.Listing, error) {
	premium, err := s.cachedListings(ctx, cachePremiumKey, s.ListingRepo.GetPremiumListings)
	if err != nil {
		return nil, nil, err
	}
	standard, err := s.cachedListings(ctx, cacheStandardKey, s.ListingRepo.GetStandardListings)
	if err != nil {
		return nil, nil, err
	}
	return premium, standard, nil
}

func (s *ListingService) UpdatePaymentStatus(ctx context.Context, id int, status string) error {
	if err := s.ListingRepo.UpdatePaymentStatus(ctx, id, status); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ListingService) ClearPremium(ctx context.Context, id int) error {
	if err := s.ListingRepo.ClearPremium(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ListingService) cachedListings(ctx context.Context, key string, fetch func(context.Context) ([]models.Listing, error)) ([]models.Listing, error) {
	if s.Cache != nil {
		var cached []models.Listing
		if ok, err := utils.GetCached(ctx, s.Cache, key, &cached); err == nil && ok {
			return cached, nil
		}
	}
	listings, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		_ = utils.SetCached(ctx, s.Cache, key, listings, listingCacheTTL)
	}
	return listings, nil
}

func (s *ListingService) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	_ = utils.DropCached(ctx, s.Cache, cachePremiumKey, cacheStandardKey)
}
