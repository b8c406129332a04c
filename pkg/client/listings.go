package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"marketplace/internal/model"
	"marketplace/pkg/query"
)

// ListingAPI covers /listings and /users/:id/listings.
type ListingAPI struct {
	c *Client
}

// ListingRequest is the body of POST /listings.
type ListingRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images,omitempty"`
	Category    model.Category  `json:"category"`
	Condition   model.Condition `json:"condition"`
	Location    *string         `json:"location,omitempty"`
}

// ListingUpdate is the body of PUT /listings/:id. Nil fields are not sent
// and stay unchanged on the server.
type ListingUpdate struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Images      *[]string        `json:"images,omitempty"`
	Category    *model.Category  `json:"category,omitempty"`
	Condition   *model.Condition `json:"condition,omitempty"`
	Location    *string          `json:"location,omitempty"`
}

// CategoryOptions narrows ByCategory. Zero values are not sent.
type CategoryOptions struct {
	Exclude uint
	Limit   int
}

type listingEnvelope struct {
	Message string         `json:"message"`
	Listing *model.Listing `json:"listing"`
}

// List returns every listing, newest first.
func (l *ListingAPI) List(ctx context.Context) ([]model.Listing, error) {
	var out []model.Listing
	if err := l.c.doJSON(ctx, http.MethodGet, "/listings", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Browse fetches every listing and applies f locally before paging.
func (l *ListingAPI) Browse(ctx context.Context, f query.Filter, page, perPage int) (query.Page, error) {
	all, err := l.List(ctx)
	if err != nil {
		return query.Page{}, err
	}
	return query.Paginate(query.Apply(all, f), page, perPage), nil
}

// Get returns one listing with its owner.
func (l *ListingAPI) Get(ctx context.Context, id uint) (*model.Listing, error) {
	var out model.Listing
	if err := l.c.doJSON(ctx, http.MethodGet, idPath("/listings/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts a listing owned by the session user.
func (l *ListingAPI) Create(ctx context.Context, req ListingRequest) (*model.Listing, error) {
	var out listingEnvelope
	if err := l.c.doJSON(ctx, http.MethodPost, "/listings", nil, req, &out); err != nil {
		return nil, err
	}
	return out.Listing, nil
}

// Update changes the supplied fields of a listing the session user owns.
func (l *ListingAPI) Update(ctx context.Context, id uint, req ListingUpdate) (*model.Listing, error) {
	var out listingEnvelope
	if err := l.c.doJSON(ctx, http.MethodPut, idPath("/listings/%d", id), nil, req, &out); err != nil {
		return nil, err
	}
	return out.Listing, nil
}

// Delete removes a listing the session user owns, along with its comments.
func (l *ListingAPI) Delete(ctx context.Context, id uint) error {
	return l.c.doJSON(ctx, http.MethodDelete, idPath("/listings/%d", id), nil, nil, nil)
}

// ByCategory lists one category, newest first.
func (l *ListingAPI) ByCategory(ctx context.Context, category model.Category, opts CategoryOptions) ([]model.Listing, error) {
	q := url.Values{}
	if opts.Exclude > 0 {
		q.Set("exclude", strconv.FormatUint(uint64(opts.Exclude), 10))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}

	var out []model.Listing
	path := "/listings/category/" + url.PathEscape(string(category))
	if err := l.c.doJSON(ctx, http.MethodGet, path, q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByPriceRange lists listings priced within [min, max]. A nil max means no
// upper bound.
func (l *ListingAPI) ByPriceRange(ctx context.Context, min decimal.Decimal, max *decimal.Decimal) ([]model.Listing, error) {
	q := url.Values{}
	q.Set("min", min.String())
	if max != nil {
		q.Set("max", max.String())
	}

	var out []model.Listing
	if err := l.c.doJSON(ctx, http.MethodGet, "/listings/price-range", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByOwner lists the listings of one user.
func (l *ListingAPI) ByOwner(ctx context.Context, userID uint) ([]model.Listing, error) {
	var out []model.Listing
	if err := l.c.doJSON(ctx, http.MethodGet, idPath("/users/%d/listings", userID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
