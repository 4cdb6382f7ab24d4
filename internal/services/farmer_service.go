// Package services – FarmerService.
//
// FarmerService validates farmer input against the declared schema and
// delegates persistence to the generic repository. Every mutation is
// validated field by field before a single store call happens; the
// repository owns id, timestamps and the active flag, so those never
// appear in the inputs here.
package services

import (
	"context"

	"github.com/coffeebridge/go-market-backend/internal/domain"
	"github.com/coffeebridge/go-market-backend/internal/utils"
)

// FarmerRepo defines the repository contract required by FarmerService.
// It is satisfied by repo.Repository[domain.Farmer, *domain.Farmer].
type FarmerRepo interface {
	Create(ctx context.Context, rec *domain.Farmer) (*domain.Farmer, error)
	GetByID(ctx context.Context, id string) (*domain.Farmer, error)
	List(ctx context.Context, page utils.PageRequest) ([]*domain.Farmer, utils.PageMeta, error)
	Search(ctx context.Context, query string, page utils.PageRequest) ([]*domain.Farmer, utils.PageMeta, error)
	Update(ctx context.Context, id string, set map[string]any) (*domain.Farmer, error)
	SoftDelete(ctx context.Context, id string) error
}

// FarmerService provides the farmer directory operations.
type FarmerService struct {
	Repo FarmerRepo
}

// NewFarmerService constructs a FarmerService over the given repository.
func NewFarmerService(r FarmerRepo) *FarmerService {
	return &FarmerService{Repo: r}
}

// CreateFarmerInput is the caller-supplied field set for a new farmer.
type CreateFarmerInput struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone"`
	Location         string   `json:"location"`
	FarmSizeHectares float64  `json:"farmSizeHectares"`
	CoffeeTypes      []string `json:"coffeeTypes"`
	Certifications   []string `json:"certifications"`
}

// UpdateFarmerInput carries the fields of a partial update. Nil fields
// are left untouched (merge semantics, never a full replace).
type UpdateFarmerInput struct {
	Name             *string   `json:"name"`
	Email            *string   `json:"email"`
	Phone            *string   `json:"phone"`
	Location         *string   `json:"location"`
	FarmSizeHectares *float64  `json:"farmSizeHectares"`
	CoffeeTypes      *[]string `json:"coffeeTypes"`
	Certifications   *[]string `json:"certifications"`
	Rating           *float64  `json:"rating"`
	TotalOrders      *int      `json:"totalOrders"`
}

// Create validates the input and persists a new farmer. The returned
// record carries its assigned id and repository-stamped lifecycle
// fields.
func (s *FarmerService) Create(ctx context.Context, in CreateFarmerInput) (*domain.Farmer, error) {
	name, err := requireText("name", in.Name)
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
	if in.FarmSizeHectares < 0 {
		return nil, invalid("farmSizeHectares", "must not be negative")
	}
	for _, ct := range in.CoffeeTypes {
		if !domain.ValidCoffeeType(ct) {
			return nil, invalid("coffeeTypes", "unknown coffee type %q", ct)
		}
	}

	return s.Repo.Create(ctx, &domain.Farmer{
		Name:             name,
		Email:            email,
		Phone:            trimmed(in.Phone),
		Location:         location,
		FarmSizeHectares: in.FarmSizeHectares,
		CoffeeTypes:      in.CoffeeTypes,
		Certifications:   in.Certifications,
	})
}

// Get returns the active farmer with the given id.
func (s *FarmerService) Get(ctx context.Context, id string) (*domain.Farmer, error) {
	return s.Repo.GetByID(ctx, id)
}

// List returns one page of active farmers.
func (s *FarmerService) List(ctx context.Context, page utils.PageRequest) ([]*domain.Farmer, utils.PageMeta, error) {
	return s.Repo.List(ctx, page)
}

// Search returns one page of active farmers matching the query. An
// empty query degenerates to List.
func (s *FarmerService) Search(ctx context.Context, query string, page utils.PageRequest) ([]*domain.Farmer, utils.PageMeta, error) {
	return s.Repo.Search(ctx, trimmed(query), page)
}

// Update validates and applies a partial update, returning the
// post-update record.
func (s *FarmerService) Update(ctx context.Context, id string, in UpdateFarmerInput) (*domain.Farmer, error) {
	set := map[string]any{}

	if in.Name != nil {
		name, err := requireText("name", *in.Name)
		if err != nil {
			return nil, err
		}
		set["name"] = name
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
	if in.FarmSizeHectares != nil {
		if *in.FarmSizeHectares < 0 {
			return nil, invalid("farmSizeHectares", "must not be negative")
		}
		set["farmSizeHectares"] = *in.FarmSizeHectares
	}
	if in.CoffeeTypes != nil {
		for _, ct := range *in.CoffeeTypes {
			if !domain.ValidCoffeeType(ct) {
				return nil, invalid("coffeeTypes", "unknown coffee type %q", ct)
			}
		}
		set["coffeeTypes"] = *in.CoffeeTypes
	}
	if in.Certifications != nil {
		set["certifications"] = *in.Certifications
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

// Delete soft-deletes the farmer: the record stays in storage, flagged
// inactive. Deleting an already deleted farmer succeeds again.
func (s *FarmerService) Delete(ctx context.Context, id string) error {
	return s.Repo.SoftDelete(ctx, id)
}
