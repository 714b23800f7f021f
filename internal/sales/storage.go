package sales

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a sale with the given ID is not found.
var ErrNotFound = errors.New("sale not found")

// ErrEmptyID is returned when trying to store a sale with an empty ID.
var ErrEmptyID = errors.New("empty sale ID")

// ErrDuplicateSaleNumber is returned when the storage uniqueness constraint
// on sale numbers rejects a write.
var ErrDuplicateSaleNumber = errors.New("duplicate sale number")

// Storage is the main interface for our sales storage layer.
type Storage interface {
	// Add persists a new sale and its items atomically.
	Add(ctx context.Context, sale *Sale) error
	// Save writes the current state of an existing sale and reports whether
	// anything changed.
	Save(ctx context.Context, sale *Sale) (bool, error)
	Read(ctx context.Context, id uuid.UUID) (*Sale, error)
	// GetAll returns every sale, newest sale date first.
	GetAll(ctx context.Context) ([]*Sale, error)
	ExistsBySaleNumber(ctx context.Context, saleNumber string) (bool, error)
}

// LocalStorage provides an in-memory implementation for storing sales.
type LocalStorage struct {
	mu      sync.RWMutex
	m       map[uuid.UUID]SaleRecord
	numbers map[string]uuid.UUID
}

// NewLocalStorage instantiates a new LocalStorage for sales with an empty map.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		m:       map[uuid.UUID]SaleRecord{},
		numbers: map[string]uuid.UUID{},
	}
}

// Add stores a snapshot of sale.
// Returns ErrEmptyID if the sale has an empty ID and ErrDuplicateSaleNumber
// if its number is taken.
func (l *LocalStorage) Add(ctx context.Context, sale *Sale) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if sale.ID() == uuid.Nil {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, taken := l.numbers[sale.SaleNumber()]; taken {
		return ErrDuplicateSaleNumber
	}
	l.m[sale.ID()] = sale.Record()
	l.numbers[sale.SaleNumber()] = sale.ID()
	return nil
}

// Save replaces the stored snapshot of an existing sale.
// Returns ErrNotFound if the sale was never added. A cancelled sale is
// terminal: saving another cancelled copy over it has no effect.
func (l *LocalStorage) Save(ctx context.Context, sale *Sale) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	current, ok := l.m[sale.ID()]
	if !ok {
		return false, ErrNotFound
	}
	next := sale.Record()
	if current.sameState(next) || (current.Cancelled && next.Cancelled) {
		return false, nil
	}
	l.m[sale.ID()] = next
	return true, nil
}

// Read retrieves a sale from the local storage by ID.
// Returns ErrNotFound if the sale is not found.
func (l *LocalStorage) Read(ctx context.Context, id uuid.UUID) (*Sale, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	r, ok := l.m[id]
	if !ok {
		return nil, ErrNotFound
	}
	return RestoreSale(r), nil
}

// GetAll retrieves all sales from the local storage, newest first.
func (l *LocalStorage) GetAll(ctx context.Context) ([]*Sale, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.RLock()
	sales := make([]*Sale, 0, len(l.m))
	for _, r := range l.m {
		sales = append(sales, RestoreSale(r))
	}
	l.mu.RUnlock()

	sort.SliceStable(sales, func(i, j int) bool {
		return sales[i].SaleDate().After(sales[j].SaleDate())
	})
	return sales, nil
}

// ExistsBySaleNumber reports whether a sale with saleNumber is stored.
func (l *LocalStorage) ExistsBySaleNumber(ctx context.Context, saleNumber string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.numbers[saleNumber]
	return ok, nil
}
