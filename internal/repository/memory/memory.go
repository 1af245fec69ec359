// Package memory provides in-process implementations of the repository
// interfaces with the same error kinds and ordering as the Postgres ones,
// for service and handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"refurb-catalog/internal/domain"
	"refurb-catalog/internal/repository"
)

// Store holds the rows shared by the repositories it hands out, so that
// category deletion can detach products like the foreign key does.
type Store struct {
	mu         sync.RWMutex
	nextID     int64
	clock      time.Time
	users      map[int64]*domain.User
	categories map[int64]*domain.Category
	products   map[int64]*domain.Product
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		clock:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:      make(map[int64]*domain.User),
		categories: make(map[int64]*domain.Category),
		products:   make(map[int64]*domain.Product),
	}
}

// tick returns a fresh id and a strictly increasing timestamp.
func (s *Store) tick() (int64, time.Time) {
	s.nextID++
	s.clock = s.clock.Add(time.Second)
	return s.nextID, s.clock
}

// Users returns a UserRepository backed by s
func (s *Store) Users() repository.UserRepository { return &userRepository{s} }

// Categories returns a CategoryRepository backed by s
func (s *Store) Categories() repository.CategoryRepository { return &categoryRepository{s} }

// Products returns a ProductRepository backed by s
func (s *Store) Products() repository.ProductRepository { return &productRepository{s} }

type userRepository struct{ s *Store }

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrUserAlreadyExists
		}
	}

	if user.Role == "" {
		user.Role = domain.RoleAdmin
	}
	user.ID, user.CreatedAt = r.s.tick()
	user.UpdatedAt = user.CreatedAt

	stored := *user
	r.s.users[user.ID] = &stored
	return nil
}

func (r *userRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			found := *u
			return &found, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *userRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	found := *u
	return &found, nil
}

func (r *userRepository) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	_, u.UpdatedAt = r.s.tick()
	return nil
}

type categoryRepository struct{ s *Store }

func (r *categoryRepository) conflicts(id int64, name, slug string) bool {
	for _, c := range r.s.categories {
		if c.ID != id && (c.Name == name || c.Slug == slug) {
			return true
		}
	}
	return false
}

func (r *categoryRepository) Create(_ context.Context, category *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.conflicts(0, category.Name, category.Slug) {
		return repository.ErrCategoryAlreadyExists
	}

	category.ID, category.CreatedAt = r.s.tick()
	category.UpdatedAt = category.CreatedAt

	stored := *category
	r.s.categories[category.ID] = &stored
	return nil
}

func (r *categoryRepository) Update(_ context.Context, id int64, patch domain.CategoryPatch) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}

	next := *c
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.Slug != nil {
		next.Slug = *patch.Slug
	}
	patch.Description.ApplyTo(&next.Description)
	patch.Icon.ApplyTo(&next.Icon)

	if r.conflicts(id, next.Name, next.Slug) {
		return nil, repository.ErrCategoryAlreadyExists
	}

	_, next.UpdatedAt = r.s.tick()
	r.s.categories[id] = &next

	updated := next
	return &updated, nil
}

func (r *categoryRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(r.s.categories, id)

	for _, p := range r.s.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
		}
	}
	return nil
}

func (r *categoryRepository) FindByID(_ context.Context, id int64) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	found := *c
	return &found, nil
}

func (r *categoryRepository) FindBySlug(_ context.Context, slug string) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.categories {
		if c.Slug == slug {
			found := *c
			return &found, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func (r *categoryRepository) List(_ context.Context) ([]*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	categories := make([]*domain.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		found := *c
		categories = append(categories, &found)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (r *categoryRepository) ListWithProductCount(ctx context.Context) ([]*domain.CategoryWithCount, error) {
	categories, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counted := make([]*domain.CategoryWithCount, 0, len(categories))
	for _, c := range categories {
		var n int64
		for _, p := range r.s.products {
			if p.CategoryID != nil && *p.CategoryID == c.ID {
				n++
			}
		}
		counted = append(counted, &domain.CategoryWithCount{Category: *c, ProductCount: n})
	}
	return counted, nil
}

type productRepository struct{ s *Store }

// view copies p and fills in the category join. Callers hold the lock.
func (r *productRepository) view(p *domain.Product) *domain.Product {
	out := *p
	out.CategoryName, out.CategorySlug = nil, nil
	if p.CategoryID != nil {
		id := *p.CategoryID
		out.CategoryID = &id
		if c, ok := r.s.categories[id]; ok {
			name, slug := c.Name, c.Slug
			out.CategoryName, out.CategorySlug = &name, &slug
		}
	}
	return &out
}

func (r *productRepository) slugTaken(id int64, slug string) bool {
	for _, p := range r.s.products {
		if p.ID != id && p.Slug == slug {
			return true
		}
	}
	return false
}

func (r *productRepository) categoryMissing(id *int64) bool {
	if id == nil {
		return false
	}
	_, ok := r.s.categories[*id]
	return !ok
}

func (r *productRepository) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.slugTaken(0, product.Slug) {
		return nil, repository.ErrProductAlreadyExists
	}
	if r.categoryMissing(product.CategoryID) {
		return nil, repository.ErrProductCategoryInvalid
	}

	stored := *product
	if stored.StockStatus == "" {
		stored.StockStatus = domain.StockInStock
	}
	stored.ID, stored.CreatedAt = r.s.tick()
	stored.UpdatedAt = stored.CreatedAt
	r.s.products[stored.ID] = &stored

	return r.view(&stored), nil
}

func (r *productRepository) Update(_ context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}

	next := *p
	applyPatch(&next, patch)

	if r.slugTaken(id, next.Slug) {
		return nil, repository.ErrProductAlreadyExists
	}
	if patch.CategoryID.Set && r.categoryMissing(next.CategoryID) {
		return nil, repository.ErrProductCategoryInvalid
	}

	_, next.UpdatedAt = r.s.tick()
	r.s.products[id] = &next
	return r.view(&next), nil
}

func applyPatch(p *domain.Product, patch domain.ProductPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Slug != nil {
		p.Slug = *patch.Slug
	}
	patch.Description.ApplyTo(&p.Description)
	patch.ImageURL.ApplyTo(&p.ImageURL)
	patch.CategoryID.ApplyTo(&p.CategoryID)
	patch.Specs.Brand.ApplyTo(&p.Brand)
	patch.Specs.Processor.ApplyTo(&p.Processor)
	patch.Specs.RAM.ApplyTo(&p.RAM)
	patch.Specs.Storage.ApplyTo(&p.Storage)
	patch.Specs.Graphics.ApplyTo(&p.Graphics)
	patch.Specs.Display.ApplyTo(&p.Display)
	patch.Specs.Battery.ApplyTo(&p.Battery)
	patch.Specs.Condition.ApplyTo(&p.Condition)
	patch.Specs.Warranty.ApplyTo(&p.Warranty)

	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.OriginalPrice.Set {
		p.OriginalPrice = decimal.NullDecimal{}
		if patch.OriginalPrice.Value != nil {
			p.OriginalPrice = decimal.NewNullDecimal(*patch.OriginalPrice.Value)
		}
	}
	if patch.StockStatus != nil {
		p.StockStatus = *patch.StockStatus
	}
	if patch.IsFeatured != nil {
		p.IsFeatured = *patch.IsFeatured
	}
}

func (r *productRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *productRepository) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return r.view(p), nil
}

func (r *productRepository) FindBySlug(_ context.Context, slug string) (*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.products {
		if p.Slug == slug {
			return r.view(p), nil
		}
	}
	return nil, repository.ErrProductNotFound
}

// newestFirst returns the joined products accepted by keep, newest first.
// Callers hold the lock.
func (r *productRepository) newestFirst(keep func(*domain.Product) bool) []*domain.Product {
	products := []*domain.Product{}
	for _, p := range r.s.products {
		v := r.view(p)
		if keep(v) {
			products = append(products, v)
		}
	}
	sort.Slice(products, func(i, j int) bool {
		if !products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		}
		return products[i].ID > products[j].ID
	})
	return products
}

func (r *productRepository) List(_ context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.newestFirst(filter.Matches), nil
}

func (r *productRepository) ListByCategorySlug(_ context.Context, categorySlug string) ([]*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.newestFirst(func(p *domain.Product) bool {
		return p.CategorySlug != nil && *p.CategorySlug == categorySlug
	}), nil
}

func (r *productRepository) ListFeatured(_ context.Context) ([]*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	products := r.newestFirst(func(p *domain.Product) bool {
		return p.IsFeatured && p.StockStatus == domain.StockInStock
	})
	if len(products) > repository.FeaturedLimit {
		products = products[:repository.FeaturedLimit]
	}
	return products, nil
}

func (r *productRepository) Stats(_ context.Context) (*domain.ProductStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stats := &domain.ProductStats{}
	for _, p := range r.s.products {
		stats.TotalProducts++
		switch p.StockStatus {
		case domain.StockInStock:
			stats.InStock++
		case domain.StockOutOfStock:
			stats.OutOfStock++
		case domain.StockLowStock:
			stats.LowStock++
		}
		if p.IsFeatured {
			stats.Featured++
		}
	}
	return stats, nil
}
