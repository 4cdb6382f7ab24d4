// Farmer HTTP handlers.
//
// This file exposes the REST surface for the farmer directory:
//   - GET    /api/farmers       (list, paginated; ?search= for substring match)
//   - POST   /api/farmers       (create)
//   - GET    /api/farmers/{id}  (fetch)
//   - PUT    /api/farmers/{id}  (partial update)
//   - DELETE /api/farmers/{id}  (soft delete)
//
// Handlers are transport-thin: they bind and normalize input, call the
// application services, and translate results into envelope responses.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coffeebridge/go-market-backend/internal/domain"
	"github.com/coffeebridge/go-market-backend/internal/services"
	"github.com/coffeebridge/go-market-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// FarmerService defines the farmer directory operations consumed by the
// HTTP layer. Implementations must be safe for concurrent use and honor
// the provided context.
type FarmerService interface {
	Create(ctx context.Context, in services.CreateFarmerInput) (*domain.Farmer, error)
	Get(ctx context.Context, id string) (*domain.Farmer, error)
	List(ctx context.Context, page utils.PageRequest) ([]*domain.Farmer, utils.PageMeta, error)
	Search(ctx context.Context, query string, page utils.PageRequest) ([]*domain.Farmer, utils.PageMeta, error)
	Update(ctx context.Context, id string, in services.UpdateFarmerInput) (*domain.Farmer, error)
	Delete(ctx context.Context, id string) error
}

// RoasterService defines the roaster directory operations consumed by
// the HTTP layer.
type RoasterService interface {
	Create(ctx context.Context, in services.CreateRoasterInput) (*domain.Roaster, error)
	Get(ctx context.Context, id string) (*domain.Roaster, error)
	List(ctx context.Context, page utils.PageRequest) ([]*domain.Roaster, utils.PageMeta, error)
	Search(ctx context.Context, query string, page utils.PageRequest) ([]*domain.Roaster, utils.PageMeta, error)
	ListByTier(ctx context.Context, tier string) ([]*domain.Roaster, error)
	Update(ctx context.Context, id string, in services.UpdateRoasterInput) (*domain.Roaster, error)
	Delete(ctx context.Context, id string) error
}

// Pinger reports document-store reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) bool
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for farmers, roasters, payments
// and health. It depends on abstract service interfaces to keep
// transport concerns separate from business logic.
type Handlers struct {
	farmers  FarmerService
	roasters RoasterService
	store    Pinger
}

// New constructs a Handlers instance bound to the given services.
func New(farmers FarmerService, roasters RoasterService, store Pinger) *Handlers {
	return &Handlers{farmers: farmers, roasters: roasters, store: store}
}

//
// Farmer endpoints
//

// CreateFarmer godoc
// @ID          createFarmer
// @Summary     Register a farmer
// @Description Validates and stores a new farmer listing.
// @Tags        Farmers
// @Accept      json
// @Produce     json
// @Param       body  body  services.CreateFarmerInput  true  "Farmer fields"
// @Success     201  {object}  handlers.SuccessResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failure"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /farmers [post]
func (h *Handlers) CreateFarmer(c *gin.Context) {
	var in services.CreateFarmerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	farmer, err := h.farmers.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "farmer not found")
		return
	}
	ok(c, http.StatusCreated, SuccessResponse{Message: "farmer created", Data: farmer})
}

// ListFarmers godoc
// @ID          listFarmers
// @Summary     List farmers (paginated)
// @Description Returns a page of active farmers. With ?search=, results
// @Description are restricted to a case-insensitive substring match on
// @Description name, location and coffee types.
// @Tags        Farmers
// @Produce     json
// @Param       page       query  int     false  "Page number"      minimum(1) default(1)
// @Param       limit      query  int     false  "Records per page" minimum(1) maximum(100) default(10)
// @Param       sortBy     query  string  false  "Sort field"       default(createdAt)
// @Param       sortOrder  query  string  false  "asc or desc"      default(desc)
// @Param       search     query  string  false  "Substring to match"
// @Success     200  {object}  handlers.SuccessResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid pagination"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /farmers [get]
func (h *Handlers) ListFarmers(c *gin.Context) {
	page, err := parsePageRequest(c)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	var (
		items []*domain.Farmer
		meta  utils.PageMeta
	)
	if q := c.Query("search"); q != "" {
		items, meta, err = h.farmers.Search(ctx, q, page)
	} else {
		items, meta, err = h.farmers.List(ctx, page)
	}
	if err != nil {
		respondError(c, err, "farmer not found")
		return
	}
	ok(c, http.StatusOK, SuccessResponse{Data: items, Pagination: &meta})
}

// GetFarmer godoc
// @ID          getFarmer
// @Summary     Fetch a farmer
// @Tags        Farmers
// @Produce     json
// @Param       id  path  string  true  "Farmer id"
// @Success     200  {object}  handlers.SuccessResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed id"
// @Failure     404  {object}  handlers.ErrorResponse  "Absent or inactive"
// @Router      /farmers/{id} [get]
func (h *Handlers) GetFarmer(c *gin.Context) {
	farmer, err := h.farmers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "farmer not found")
		return
	}
	ok(c, http.StatusOK, SuccessResponse{Data: farmer})
}

// UpdateFarmer godoc
// @ID          updateFarmer
// @Summary     Update a farmer (partial)
// @Description Applies only the supplied fields; everything else is
// @Description left untouched.
// @Tags        Farmers
// @Accept      json
// @Produce     json
// @Param       id    path  string  true  "Farmer id"
// @Param       body  body  services.UpdateFarmerInput  true  "Fields to change"
// @Success     200  {object}  handlers.SuccessResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /farmers/{id} [put]
func (h *Handlers) UpdateFarmer(c *gin.Context) {
	var in services.UpdateFarmerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	farmer, err := h.farmers.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err, "farmer not found")
		return
	}
	ok(c, http.StatusOK, SuccessResponse{Message: "farmer updated", Data: farmer})
}

// DeleteFarmer godoc
// @ID          deleteFarmer
// @Summary     Delete a farmer (soft)
// @Description Marks the farmer inactive; the record is retained in
// @Description storage and the operation is idempotent.
// @Tags        Farmers
// @Produce     json
// @Param       id  path  string  true  "Farmer id"
// @Success     200  {object}  handlers.SuccessResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /farmers/{id} [delete]
func (h *Handlers) DeleteFarmer(c *gin.Context) {
	if err := h.farmers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "farmer not found")
		return
	}
	ok(c, http.StatusOK, SuccessResponse{
		Message: "farmer deleted",
		Data:    gin.H{"deleted": true},
	})
}
