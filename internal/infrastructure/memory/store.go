// Package memory provides map-backed repositories for tests and local demos.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
)

type txKey struct{}

// Store holds every table. Operations outside WithinTx take the store lock
// themselves; inside WithinTx the lock is already held for the whole callback.
type Store struct {
	mu sync.Mutex

	users    map[string]entity.User
	emails   map[string]string
	revoked  map[string]entity.RevokedToken
	pizzas   map[string]entity.Pizza
	sizes    map[string]entity.Size
	toppings map[string]entity.Topping
	orders   map[string]entity.Order

	now func() time.Time
}

type snapshot struct {
	users    map[string]entity.User
	emails   map[string]string
	revoked  map[string]entity.RevokedToken
	pizzas   map[string]entity.Pizza
	sizes    map[string]entity.Size
	toppings map[string]entity.Topping
	orders   map[string]entity.Order
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]entity.User),
		emails:   make(map[string]string),
		revoked:  make(map[string]entity.RevokedToken),
		pizzas:   make(map[string]entity.Pizza),
		sizes:    make(map[string]entity.Size),
		toppings: make(map[string]entity.Topping),
		orders:   make(map[string]entity.Order),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Users() *UserRepository                 { return &UserRepository{s: s} }
func (s *Store) RevokedTokens() *RevokedTokenRepository { return &RevokedTokenRepository{s: s} }
func (s *Store) Menu() *MenuRepository                  { return &MenuRepository{s: s} }
func (s *Store) Orders() *OrderRepository               { return &OrderRepository{s: s} }

// WithinTx runs fn with the store locked and restores the previous state if fn fails.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// lock acquires the store lock unless ctx belongs to a running transaction.
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) snapshot() snapshot {
	orders := make(map[string]entity.Order, len(s.orders))
	for id, o := range s.orders {
		orders[id] = cloneOrder(o)
	}
	return snapshot{
		users:    cloneMap(s.users),
		emails:   cloneMap(s.emails),
		revoked:  cloneMap(s.revoked),
		pizzas:   cloneMap(s.pizzas),
		sizes:    cloneMap(s.sizes),
		toppings: cloneMap(s.toppings),
		orders:   orders,
	}
}

func (s *Store) restore(snap snapshot) {
	s.users = snap.users
	s.emails = snap.emails
	s.revoked = snap.revoked
	s.pizzas = snap.pizzas
	s.sizes = snap.sizes
	s.toppings = snap.toppings
	s.orders = snap.orders
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneOrder(o entity.Order) entity.Order {
	o.ToppingIDs = append([]string(nil), o.ToppingIDs...)
	if o.Delivery != nil {
		d := *o.Delivery
		o.Delivery = &d
	}
	return o
}
