// Package services – RoasterService.
//
// Mirrors FarmerService for the roaster record kind, plus the
// categorical filter operation (roasters by subscription tier).
package services

import (
	"context"
	"strings"

	"github.com/coffeebridge/go-market-backend/internal/domain"
	"github.com/coffeebridge/go-market-backend/internal/utils"
)

// RoasterRepo defines the repository contract required by
// RoasterService. It is satisfied by
// repo.Repository[domain.Roaster, *domain.Roaster].
type RoasterRepo interface {
	Create(ctx context.Context, rec *domain.Roaster) (*domain.Roaster, error)
	GetByID(ctx context.Context, id string) (*domain.Roaster, error)
	List(ctx context.Context, page utils.PageRequest) ([]*domain.Roaster, utils.PageMeta, error)
	Search(ctx context.Context, query string, page utils.PageRequest) ([]*domain.Roaster, utils.PageMeta, error)
	Update(ctx context.Context, id string, set map[string]any) (*domain.Roaster, error)
	SoftDelete(ctx context.Context, id string) error
	ListAllWhere(ctx context.Context, field string, value any) ([]*domain.Roaster, error)
}

// RoasterService provides the roaster directory operations.
type RoasterService struct {
	Repo RoasterRepo
}

// NewRoasterService constructs a RoasterService over the given
// repository.
func NewRoasterService(r RoasterRepo) *RoasterService {
	return &RoasterService{Repo: r}
}

// CreateRoasterInput is the caller-supplied field set for a new
// roaster. BusinessType defaults to "independent" and SubscriptionTier
// to "free" when omitted.
type CreateRoasterInput struct {
	BusinessName       string   `json:"businessName"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone"`
	Location           string   `json:"location"`
	BusinessType       string   `json:"businessType"`
	Specialties        []string `json:"specialties"`
	RoastingCapacityKg float64  `json:"roastingCapacityKg"`
	SubscriptionTier   string   `json:"subscriptionTier"`
}

// UpdateRoasterInput carries the fields of a partial update. Nil fields
// are left untouched.
type UpdateRoasterInput struct {
	BusinessName       *string   `json:"businessName"`
	Email              *string   `json:"email"`
	Phone              *string   `json:"phone"`
	Location           *string   `json:"location"`
	BusinessType       *string   `json:"businessType"`
	Specialties        *[]string `json:"specialties"`
	RoastingCapacityKg *float64  `json:"roastingCapacityKg"`
	SubscriptionTier   *string   `json:"subscriptionTier"`
	Rating             *float64  `json:"rating"`
	TotalOrders        *int      `json:"totalOrders"`
}

// Create validates the input and persists a new roaster.
func (s *RoasterService) Create(ctx context.Context, in CreateRoasterInput) (*domain.Roaster, error) {
	name, err := requireText("businessName", in.BusinessName)
	if err != nil {
		return nil, err
	}
	email := trimmed(in.Email)
	if email == "" {
		return nil, invalid("email", "is required")
	}
	if !validEmail(email) {
		return nil, invalid("email", "is not a valid email address")
	}
	location, err := requireText("location", in.Location)
	if err != nil {
		return nil, err
	}

	businessType := strings.ToLower(trimmed(in.BusinessType))
	if businessType == "" {
		businessType = domain.BusinessIndependent
	}
	if !domain.ValidBusinessType(businessType) {
		return nil, invalid("businessType", "unknown business type %q", businessType)
	}

	tier := strings.ToLower(trimmed(in.SubscriptionTier))
	if tier == "" {
		tier = domain.TierFree
	}
	if !domain.ValidSubscriptionTier(tier) {
		return nil, invalid("subscriptionTier", "unknown subscription tier %q", tier)
	}

	if in.RoastingCapacityKg < 0 {
		return nil, invalid("roastingCapacityKg", "must not be negative")
	}

	return s.Repo.Create(ctx, &domain.Roaster{
		BusinessName:       name,
		Email:              email,
		Phone:              trimmed(in.Phone),
		Location:           location,
		BusinessType:       businessType,
		Specialties:        in.Specialties,
		RoastingCapacityKg: in.RoastingCapacityKg,
		SubscriptionTier:   tier,
	})
}

// Get returns the active roaster with the given id.
func (s *RoasterService) Get(ctx context.Context, id string) (*domain.Roaster, error) {
	return s.Repo.GetByID(ctx, id)
}

// List returns one page of active roasters.
func (s *RoasterService) List(ctx context.Context, page utils.PageRequest) ([]*domain.Roaster, utils.PageMeta, error) {
	return s.Repo.List(ctx, page)
}

// Search returns one page of active roasters matching the query.
func (s *RoasterService) Search(ctx context.Context, query string, page utils.PageRequest) ([]*domain.Roaster, utils.PageMeta, error) {
	return s.Repo.Search(ctx, trimmed(query), page)
}

// ListByTier returns every active roaster on the given subscription
// tier, newest first, without pagination. The tier is validated against
// the fixed set before the store is touched.
func (s *RoasterService) ListByTier(ctx context.Context, tier string) ([]*domain.Roaster, error) {
	t := strings.ToLower(trimmed(tier))
	if !domain.ValidSubscriptionTier(t) {
		return nil, invalid("tier", "must be one of %s", strings.Join(domain.SubscriptionTiers(), ", "))
	}
	return s.Repo.ListAllWhere(ctx, "subscriptionTier", t)
}

// Update validates and applies a partial update, returning the
// post-update record.
func (s *RoasterService) Update(ctx context.Context, id string, in UpdateRoasterInput) (*domain.Roaster, error) {
	set := map[string]any{}

	if in.BusinessName != nil {
		name, err := requireText("businessName", *in.BusinessName)
		if err != nil {
			return nil, err
		}
		set["businessName"] = name
	}
	if in.Email != nil {
		email := trimmed(*in.Email)
		if !validEmail(email) {
			return nil, invalid("email", "is not a valid email address")
		}
		set["email"] = email
	}
	if in.Phone != nil {
		set["phone"] = trimmed(*in.Phone)
	}
	if in.Location != nil {
		location, err := requireText("location", *in.Location)
		if err != nil {
			return nil, err
		}
		set["location"] = location
	}
	if in.BusinessType != nil {
		bt := strings.ToLower(trimmed(*in.BusinessType))
		if !domain.ValidBusinessType(bt) {
			return nil, invalid("businessType", "unknown business type %q", bt)
		}
		set["businessType"] = bt
	}
	if in.Specialties != nil {
		set["specialties"] = *in.Specialties
	}
	if in.RoastingCapacityKg != nil {
		if *in.RoastingCapacityKg < 0 {
			return nil, invalid("roastingCapacityKg", "must not be negative")
		}
		set["roastingCapacityKg"] = *in.RoastingCapacityKg
	}
	if in.SubscriptionTier != nil {
		tier := strings.ToLower(trimmed(*in.SubscriptionTier))
		if !domain.ValidSubscriptionTier(tier) {
			return nil, invalid("subscriptionTier", "unknown subscription tier %q", tier)
		}
		set["subscriptionTier"] = tier
	}
	if in.Rating != nil {
		if err := checkRating(*in.Rating); err != nil {
			return nil, err
		}
		set["rating"] = *in.Rating
	}
	if in.TotalOrders != nil {
		if *in.TotalOrders < 0 {
			return nil, invalid("totalOrders", "must not be negative")
		}
		set["totalOrders"] = *in.TotalOrders
	}

	return s.Repo.Update(ctx, id, set)
}

// Delete soft-deletes the roaster.
func (s *RoasterService) Delete(ctx context.Context, id string) error {
	return s.Repo.SoftDelete(ctx, id)
}
