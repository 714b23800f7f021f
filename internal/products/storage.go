package products

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a product with the given ID is not found.
var ErrNotFound = errors.New("product not found")

// Storage persists catalog products. It also answers the existence and price
// questions asked during sale creation.
type Storage interface {
	Add(ctx context.Context, p *Product) error
	Save(ctx context.Context, p *Product) error
	Read(ctx context.Context, id uuid.UUID) (*Product, error)
	GetAll(ctx context.Context) ([]*Product, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	GetPrice(ctx context.Context, id uuid.UUID) (decimal.NullDecimal, error)
}

// LocalStorage is an in-memory product store.
type LocalStorage struct {
	mu sync.RWMutex
	m  map[uuid.UUID]Product
}

// NewLocalStorage returns an empty LocalStorage.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{m: map[uuid.UUID]Product{}}
}

func (l *LocalStorage) Add(ctx context.Context, p *Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.m[p.ID] = *p
	return nil
}

// Save overwrites an existing product. Returns ErrNotFound if it was never added.
func (l *LocalStorage) Save(ctx context.Context, p *Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.m[p.ID]; !ok {
		return ErrNotFound
	}
	l.m[p.ID] = *p
	return nil
}

func (l *LocalStorage) Read(ctx context.Context, id uuid.UUID) (*Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.m[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// GetAll returns products ordered by title.
func (l *LocalStorage) GetAll(ctx context.Context) ([]*Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	out := make([]*Product, 0, len(l.m))
	for _, p := range l.m {
		p := p
		out = append(out, &p)
	}
	l.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (l *LocalStorage) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.m[id]
	return ok, nil
}

// GetPrice returns the current price, or an invalid NullDecimal when the
// product is unknown.
func (l *LocalStorage) GetPrice(ctx context.Context, id uuid.UUID) (decimal.NullDecimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.NullDecimal{}, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.m[id]
	if !ok {
		return decimal.NullDecimal{}, nil
	}
	return decimal.NewNullDecimal(p.Price), nil
}
