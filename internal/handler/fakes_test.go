package handler_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"marketplace/internal/model"
	"marketplace/internal/repository"
)

// memStore backs the in-memory repositories used by the HTTP tests.
type memStore struct {
	mu       sync.Mutex
	seq      uint
	clock    time.Time
	users    map[uint]model.User
	listings map[uint]model.Listing
	comments map[uint]model.Comment
}

func newMemStore() *memStore {
	return &memStore{
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		users:    make(map[uint]model.User),
		listings: make(map[uint]model.Listing),
		comments: make(map[uint]model.Comment),
	}
}

func (s *memStore) next() (uint, time.Time) {
	s.seq++
	s.clock = s.clock.Add(time.Second)
	return s.seq, s.clock
}

func (s *memStore) author(id uint) *model.User {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	return &u
}

func (s *memStore) addUser(id uint, name, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = model.User{ID: id, Name: name, Email: email}
	if id > s.seq {
		s.seq = id
	}
}

type memUsers struct{ *memStore }

func (r memUsers) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.Email = model.NormalizeEmail(user.Email)
	for _, u := range r.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID, user.CreatedAt = r.next()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r memUsers) FindByID(_ context.Context, id uint) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u := r.author(id); u != nil {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = model.NormalizeEmail(email)
	for _, u := range r.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memUsers) List(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memListings struct{ *memStore }

func (r memListings) Create(_ context.Context, listing *model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	listing.ID, listing.CreatedAt = r.next()
	listing.UpdatedAt = listing.CreatedAt
	stored := *listing
	stored.User = nil
	r.listings[listing.ID] = stored
	return nil
}

func (r memListings) FindByID(_ context.Context, id uint) (*model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	l.User = r.author(l.OwnerID)
	return &l, nil
}

func (r memListings) Exists(_ context.Context, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.listings[id]
	return ok, nil
}

func (r memListings) filter(keep func(model.Listing) bool) []model.Listing {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Listing{}
	for _, l := range r.listings {
		if keep(l) {
			l.User = r.author(l.OwnerID)
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r memListings) List(_ context.Context) ([]model.Listing, error) {
	return r.filter(func(model.Listing) bool { return true }), nil
}

func (r memListings) ListByCategory(_ context.Context, q model.CategoryQuery) ([]model.Listing, error) {
	out := r.filter(func(l model.Listing) bool {
		return l.Category == q.Category && (q.ExcludeID == nil || l.ID != *q.ExcludeID)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r memListings) ListByPriceRange(_ context.Context, pr model.PriceRange) ([]model.Listing, error) {
	return r.filter(func(l model.Listing) bool { return pr.Contains(l.Price) }), nil
}

func (r memListings) ListByOwner(_ context.Context, ownerID uint) ([]model.Listing, error) {
	return r.filter(func(l model.Listing) bool { return l.OwnerID == ownerID }), nil
}

func (r memListings) UpdateOwned(_ context.Context, id, ownerID uint, changes model.ListingChanges) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok || l.OwnerID != ownerID {
		return gorm.ErrRecordNotFound
	}
	applyChanges(&l, changes)
	_, l.UpdatedAt = r.next()
	r.listings[id] = l
	return nil
}

// applyChanges mirrors the column updates UpdateOwned issues in SQL.
func applyChanges(l *model.Listing, c model.ListingChanges) {
	if c.Title != nil {
		l.Title = *c.Title
	}
	if c.Description != nil {
		l.Description = *c.Description
	}
	if c.Price != nil {
		l.Price = *c.Price
	}
	if c.Images != nil {
		l.Images = append(model.StringList(nil), (*c.Images)...)
	}
	if c.Category != nil {
		l.Category = *c.Category
	}
	if c.Condition != nil {
		l.Condition = *c.Condition
	}
	if c.Location != nil {
		loc := *c.Location
		l.Location = &loc
	}
}

func (r memListings) DeleteOwned(_ context.Context, id, ownerID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok || l.OwnerID != ownerID {
		return gorm.ErrRecordNotFound
	}
	for cid, c := range r.comments {
		if c.ListingID == id {
			delete(r.comments, cid)
		}
	}
	delete(r.listings, id)
	return nil
}

func (r memListings) NormalizeConditions(context.Context) (int64, error) { return 0, nil }

func (r memListings) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.ListingRepository) error) error {
	return fn(ctx, r)
}

type memComments struct{ *memStore }

func (r memComments) Create(_ context.Context, comment *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[comment.ListingID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	comment.ID, comment.CreatedAt = r.next()
	comment.UpdatedAt = comment.CreatedAt
	stored := *comment
	stored.User = nil
	r.comments[comment.ID] = stored
	comment.User = r.author(comment.UserID)
	return nil
}

func (r memComments) FindByID(_ context.Context, id uint) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r memComments) ListByListing(_ context.Context, listingID uint) ([]model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Comment{}
	for _, c := range r.comments {
		if c.ListingID == listingID {
			c.User = r.author(c.UserID)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memComments) DeleteOwned(_ context.Context, id, authorID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok || c.UserID != authorID {
		return gorm.ErrRecordNotFound
	}
	delete(r.comments, id)
	return nil
}

type memImages struct{}

func (memImages) SaveImage(_ context.Context, objectKey, _ string, _ []byte) (string, error) {
	return "https://images.example/" + objectKey, nil
}
