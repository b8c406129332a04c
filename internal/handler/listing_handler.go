package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"marketplace/internal/authz"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/model"
	"marketplace/internal/service"
)

// ListingContextKey is where the ownership middleware binds the resolved listing.
const ListingContextKey = "listing"

// ListingHandler handles listing endpoints.
type ListingHandler struct {
	listingService service.ListingService
}

// NewListingHandler creates a new listing handler.
func NewListingHandler(listingService service.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// CreateListingRequest represents a new listing.
type CreateListingRequest struct {
	Title       string           `json:"title" validate:"required,max=255"`
	Description string           `json:"description" validate:"required"`
	Price       *decimal.Decimal `json:"price" validate:"required,price" swaggertype:"number"`
	Images      []string         `json:"images" validate:"omitempty,dive,url"`
	Category    model.Category   `json:"category" validate:"required,category"`
	Condition   model.Condition  `json:"condition" validate:"required,condition"`
	Location    *string          `json:"location" validate:"omitempty,max=255"`
}

// UpdateListingRequest carries a partial update; omitted fields stay unchanged.
type UpdateListingRequest struct {
	Title       *string          `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description" validate:"omitempty,min=1"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,price" swaggertype:"number"`
	Images      *[]string        `json:"images" validate:"omitempty,dive,url"`
	Category    *model.Category  `json:"category" validate:"omitempty,category"`
	Condition   *model.Condition `json:"condition" validate:"omitempty,condition"`
	Location    *string          `json:"location" validate:"omitempty,max=255"`
}

// Changes converts the request into a model.ListingChanges.
func (r UpdateListingRequest) Changes() model.ListingChanges {
	return model.ListingChanges{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Images:      r.Images,
		Category:    r.Category,
		Condition:   r.Condition,
		Location:    r.Location,
	}
}

// ResolveListing loads the listing addressed by :id for the ownership middleware.
func (h *ListingHandler) ResolveListing(c echo.Context) (authz.Resource, error) {
	id, err := parseID(c, "id", apperrors.ErrListingNotFound)
	if err != nil {
		return nil, err
	}
	return h.listingService.Get(c.Request().Context(), id)
}

// boundListing returns the listing the ownership middleware resolved, or resolves it.
func (h *ListingHandler) boundListing(c echo.Context) (*model.Listing, error) {
	if listing, ok := c.Get(ListingContextKey).(*model.Listing); ok && listing != nil {
		return listing, nil
	}
	resource, err := h.ResolveListing(c)
	if err != nil {
		return nil, err
	}
	return resource.(*model.Listing), nil
}

// List godoc
// @Summary List listings
// @Description All listings, newest first, each with its owner.
// @Tags listings
// @Produce json
// @Success 200 {array} model.Listing
// @Router /listings [get]
func (h *ListingHandler) List(c echo.Context) error {
	listings, err := h.listingService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(listings))
}

// Create godoc
// @Summary Create listing
// @Tags listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateListingRequest true "Listing"
// @Success 201 {object} ListingEnvelope
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /listings [post]
func (h *ListingHandler) Create(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req CreateListingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	listing, err := h.listingService.Create(c.Request().Context(), identity, service.ListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       *req.Price,
		Images:      req.Images,
		Category:    req.Category,
		Condition:   req.Condition,
		Location:    req.Location,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, ListingEnvelope{Message: "Listing created successfully", Listing: listing})
}

// Show godoc
// @Summary Get listing
// @Tags listings
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} model.Listing
// @Failure 404 {object} errors.ErrorResponse
// @Router /listings/{id} [get]
func (h *ListingHandler) Show(c echo.Context) error {
	id, err := parseID(c, "id", apperrors.ErrListingNotFound)
	if err != nil {
		return err
	}

	listing, err := h.listingService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listing)
}

// Update godoc
// @Summary Update listing
// @Description Owner only. Omitted fields are left unchanged.
// @Tags listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Param request body UpdateListingRequest true "Fields to change"
// @Success 200 {object} ListingEnvelope
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /listings/{id} [put]
func (h *ListingHandler) Update(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	listing, err := h.boundListing(c)
	if err != nil {
		return err
	}

	var req UpdateListingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.listingService.Update(c.Request().Context(), identity, listing, req.Changes())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ListingEnvelope{Message: "Listing updated successfully", Listing: updated})
}

// Delete godoc
// @Summary Delete listing
// @Description Owner only. Comments on the listing are removed with it.
// @Tags listings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /listings/{id} [delete]
func (h *ListingHandler) Delete(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	listing, err := h.boundListing(c)
	if err != nil {
		return err
	}

	if err := h.listingService.Delete(c.Request().Context(), identity, listing); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Listing deleted successfully"})
}

// ByCategory godoc
// @Summary Listings in a category
// @Tags listings
// @Produce json
// @Param category path string true "Category"
// @Param exclude query int false "Listing ID to leave out"
// @Param limit query int false "Maximum number of results"
// @Success 200 {array} model.Listing
// @Failure 400 {object} errors.ErrorResponse
// @Router /listings/category/{category} [get]
func (h *ListingHandler) ByCategory(c echo.Context) error {
	category, err := url.PathUnescape(c.Param("category"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid category")
	}

	var exclude uint64
	var limit int
	if err := echo.QueryParamsBinder(c).
		Uint64("exclude", &exclude).
		Int("limit", &limit).
		BindError(); err != nil {
		return err
	}

	q := model.CategoryQuery{Category: model.Category(category), Limit: limit}
	if exclude > 0 {
		id := uint(exclude)
		q.ExcludeID = &id
	}

	listings, err := h.listingService.ListByCategory(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(listings))
}

// ByPriceRange godoc
// @Summary Listings in a price range
// @Description Both bounds are inclusive. min defaults to 0, a missing max means no upper bound.
// @Tags listings
// @Produce json
// @Param min query number false "Lowest price"
// @Param max query number false "Highest price"
// @Success 200 {array} model.Listing
// @Failure 422 {object} errors.ErrorResponse
// @Router /listings/price-range [get]
func (h *ListingHandler) ByPriceRange(c echo.Context) error {
	invalid := &apperrors.ValidationError{}
	r := model.PriceRange{Min: decimal.Zero}

	if raw := c.QueryParam("min"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			invalid.Add("min", "The min field must be a number.")
		} else {
			r.Min = d
		}
	}
	if raw := c.QueryParam("max"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			invalid.Add("max", "The max field must be a number.")
		} else {
			r.Max = &d
		}
	}
	if invalid.HasErrors() {
		return invalid
	}

	listings, err := h.listingService.ListByPriceRange(c.Request().Context(), r)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(listings))
}

// ByOwner godoc
// @Summary Listings of a user
// @Tags listings
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} model.Listing
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/listings [get]
func (h *ListingHandler) ByOwner(c echo.Context) error {
	ownerID, err := parseID(c, "id", apperrors.ErrUserNotFound)
	if err != nil {
		return err
	}

	listings, err := h.listingService.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(listings))
}
