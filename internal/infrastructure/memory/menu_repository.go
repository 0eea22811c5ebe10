package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
	"github.com/oksasatya/go-pizza-api/internal/domain/repository"
)

type MenuRepository struct {
	s *Store
}

var _ repository.MenuRepository = (*MenuRepository)(nil)

// AddPizza stores p, assigning an ID when empty.
func (r *MenuRepository) AddPizza(p entity.Pizza) entity.Pizza {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.s.now()
	}
	r.s.pizzas[p.ID] = p
	return p
}

func (r *MenuRepository) AddSize(sz entity.Size) entity.Size {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sz.ID == "" {
		sz.ID = uuid.NewString()
	}
	if sz.CreatedAt.IsZero() {
		sz.CreatedAt = r.s.now()
	}
	r.s.sizes[sz.ID] = sz
	return sz
}

func (r *MenuRepository) AddTopping(t entity.Topping) entity.Topping {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = r.s.now()
	}
	r.s.toppings[t.ID] = t
	return t
}

func (r *MenuRepository) ListPizzas(ctx context.Context) ([]entity.Pizza, error) {
	defer r.s.lock(ctx)()
	out := make([]entity.Pizza, 0, len(r.s.pizzas))
	for _, p := range r.s.pizzas {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MenuRepository) ListSizes(ctx context.Context) ([]entity.Size, error) {
	defer r.s.lock(ctx)()
	out := make([]entity.Size, 0, len(r.s.sizes))
	for _, sz := range r.s.sizes {
		out = append(out, sz)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Multiplier.LessThan(out[j].Multiplier) })
	return out, nil
}

func (r *MenuRepository) ListToppings(ctx context.Context) ([]entity.Topping, error) {
	defer r.s.lock(ctx)()
	out := make([]entity.Topping, 0, len(r.s.toppings))
	for _, t := range r.s.toppings {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MenuRepository) GetPizza(ctx context.Context, id string) (*entity.Pizza, error) {
	defer r.s.lock(ctx)()
	p, ok := r.s.pizzas[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *MenuRepository) GetSize(ctx context.Context, id string) (*entity.Size, error) {
	defer r.s.lock(ctx)()
	sz, ok := r.s.sizes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sz, nil
}

func (r *MenuRepository) GetToppings(ctx context.Context, ids []string) ([]entity.Topping, error) {
	defer r.s.lock(ctx)()
	out := make([]entity.Topping, 0, len(ids))
	for _, id := range ids {
		if t, ok := r.s.toppings[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *MenuRepository) UpdatePizzaImage(ctx context.Context, id, image string) error {
	defer r.s.lock(ctx)()
	p, ok := r.s.pizzas[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Image = image
	r.s.pizzas[id] = p
	return nil
}
