// Roaster HTTP handlers.
//
// Same surface as the farmer endpoints, plus the subscription-tier
// filter on the collection GET (?tier=), which returns the full
// unpaginated match.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coffeebridge/go-market-backend/internal/domain"
	"github.com/coffeebridge/go-market-backend/internal/services"
	"github.com/coffeebridge/go-market-backend/internal/utils"
)

// CreateRoaster godoc
// @ID          createRoaster
// @Summary     Register a roaster
// @Description Validates and stores a new roaster listing. BusinessType
// @Description defaults to "independent", SubscriptionTier to "free".
// @Tags        Roasters
// @Accept      json
// @Produce     json
// @Param       body  body  services.CreateRoasterInput  true  "Roaster fields"
// @Success     201  {object}  handlers.SuccessResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failure"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /roasters [post]
func (h *Handlers) CreateRoaster(c *gin.Context) {
	var in services.CreateRoasterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	roaster, err := h.roasters.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "roaster not found")
		return
	}
	ok(c, http.StatusCreated, SuccessResponse{Message: "roaster created", Data: roaster})
}

// ListRoasters godoc
// @ID          listRoasters
// @Summary     List roasters (paginated, searchable, tier-filterable)
// @Description Returns a page of active roasters. ?search= restricts to
// @Description a case-insensitive substring match on business name,
// @Description location and specialties. ?tier= instead returns every
// @Description roaster on that subscription tier, unpaginated.
// @Tags        Roasters
// @Produce     json
// @Param       page       query  string  false  "Page number"
// @Param       limit      query  string  false  "Records per page"
// @Param       sortBy     query  string  false  "Sort field"
// @Param       sortOrder  query  string  false  "asc or desc"
// @Param       search     query  string  false  "Substring to match"
// @Param       tier       query  string  false  "Subscription tier filter"
// @Success     200  {object}  handlers.SuccessResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     500  {object}  handlers.ErrorResponse
// @Router      /roasters [get]
func (h *Handlers) ListRoasters(c *gin.Context) {
	ctx := c.Request.Context()

	// Categorical filter: validated against the fixed tier set, then
	// behaves like an unpaginated list.
	if tier, present := c.GetQuery("tier"); present {
		items, err := h.roasters.ListByTier(ctx, tier)
		if err != nil {
			respondError(c, err, "roaster not found")
			return
		}
		ok(c, http.StatusOK, SuccessResponse{Data: items})
		return
	}

	page, err := parsePageRequest(c)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	var (
		items []*domain.Roaster
		meta  utils.PageMeta
	)
	if q := c.Query("search"); q != "" {
		items, meta, err = h.roasters.Search(ctx, q, page)
	} else {
		items, meta, err = h.roasters.List(ctx, page)
	}
	if err != nil {
		respondError(c, err, "roaster not found")
		return
	}
	ok(c, http.StatusOK, SuccessResponse{Data: items, Pagination: &meta})
}

// GetRoaster godoc
// @ID          getRoaster
// @Summary     Fetch a roaster
// @Tags        Roasters
// @Produce     json
// @Param       id  path  string  true  "Roaster id"
// @Success     200  {object}  handlers.SuccessResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed id"
// @Failure     404  {object}  handlers.ErrorResponse  "Absent or inactive"
// @Router      /roasters/{id} [get]
func (h *Handlers) GetRoaster(c *gin.Context) {
	roaster, err := h.roasters.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "roaster not found")
		return
	}
	ok(c, http.StatusOK, SuccessResponse{Data: roaster})
}

// UpdateRoaster godoc
// @ID          updateRoaster
// @Summary     Update a roaster (partial)
// @Tags        Roasters
// @Accept      json
// @Produce     json
// @Param       id    path  string  true  "Roaster id"
// @Param       body  body  services.UpdateRoasterInput  true  "Fields to change"
// @Success     200  {object}  handlers.SuccessResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /roasters/{id} [put]
func (h *Handlers) UpdateRoaster(c *gin.Context) {
	var in services.UpdateRoasterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	roaster, err := h.roasters.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err, "roaster not found")
		return
	}
	ok(c, http.StatusOK, SuccessResponse{Message: "roaster updated", Data: roaster})
}

// DeleteRoaster godoc
// @ID          deleteRoaster
// @Summary     Delete a roaster (soft)
// @Tags        Roasters
// @Produce     json
// @Param       id  path  string  true  "Roaster id"
// @Success     200  {object}  handlers.SuccessResponse
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /roasters/{id} [delete]
func (h *Handlers) DeleteRoaster(c *gin.Context) {
	if err := h.roasters.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "roaster not found")
		return
	}
	ok(c, http.StatusOK, SuccessResponse{
		Message: "roaster deleted",
		Data:    gin.H{"deleted": true},
	})
}
