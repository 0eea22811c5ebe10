package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pizza-api/internal/domain/entity"
	repo "github.com/oksasatya/go-pizza-api/internal/domain/repository"
	"github.com/oksasatya/go-pizza-api/pkg/helpers"
)

const (
	cacheKeyPizzas   = "menu:pizzas"
	cacheKeySizes    = "menu:sizes"
	cacheKeyToppings = "menu:toppings"
)

const pizzaIndexMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "name":        {"type": "text"},
      "description": {"type": "text"},
      "base_price":  {"type": "keyword"},
      "image":       {"type": "keyword", "index": false},
      "created_at":  {"type": "date"}
    }
  }
}`

// ImageStore stores an object and returns its public URL.
type ImageStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

type MenuService struct {
	Repo     repo.MenuRepository
	Redis    redis.Cmdable
	CacheTTL time.Duration
	ES       *elasticsearch.Client
	ESIndex  string
	Images   ImageStore
	Logger   *logrus.Logger
}

func NewMenuService(r repo.MenuRepository, rdb redis.Cmdable, cacheTTL time.Duration, es *elasticsearch.Client, esIndex string, images ImageStore, logger *logrus.Logger) *MenuService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &MenuService{
		Repo:     r,
		Redis:    rdb,
		CacheTTL: cacheTTL,
		ES:       es,
		ESIndex:  esIndex,
		Images:   images,
		Logger:   logger,
	}
}

func (s *MenuService) ListPizzas(ctx context.Context) ([]entity.Pizza, error) {
	return cached(ctx, s, cacheKeyPizzas, s.Repo.ListPizzas)
}

func (s *MenuService) ListSizes(ctx context.Context) ([]entity.Size, error) {
	return cached(ctx, s, cacheKeySizes, s.Repo.ListSizes)
}

func (s *MenuService) ListToppings(ctx context.Context) ([]entity.Topping, error) {
	return cached(ctx, s, cacheKeyToppings, s.Repo.ListToppings)
}

// cached reads key from Redis, falling back to load. Cache errors only log.
func cached[T any](ctx context.Context, s *MenuService, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if s.Redis != nil {
		var out []T
		hit, err := helpers.RedisGetJSON(ctx, s.Redis, key, &out)
		if err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("menu cache read failed")
		} else if hit {
			return out, nil
		}
	}
	items, err := load(ctx)
	if err != nil {
		return nil, internalErr(err)
	}
	if items == nil {
		items = []T{}
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, key, items, s.CacheTTL); err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("menu cache write failed")
		}
	}
	return items, nil
}

func (s *MenuService) invalidate(ctx context.Context, keys ...string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, keys...); err != nil {
		s.Logger.WithError(err).Warn("menu cache invalidation failed")
	}
}

// UploadPizzaImage stores the image under pizzas/<id>/ and points the pizza at it.
func (s *MenuService) UploadPizzaImage(ctx context.Context, pizzaID string, r io.Reader, filename, contentType string) (*entity.Pizza, error) {
	if s.Images == nil {
		return nil, ErrFeatureUnavailable.WithMessage("Image storage is not configured.")
	}
	p, err := s.Repo.GetPizza(ctx, pizzaID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPizzaNotFound
		}
		return nil, internalErr(err)
	}
	ext := strings.ToLower(path.Ext(filename))
	objectPath := path.Join("pizzas", p.ID, uuid.NewString()+ext)
	url, err := s.Images.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return nil, internalErr(err)
	}
	if err := s.Repo.UpdatePizzaImage(ctx, p.ID, url); err != nil {
		return nil, internalErr(err)
	}
	p.Image = url
	s.invalidate(ctx, cacheKeyPizzas)
	if err := s.indexPizza(ctx, p); err != nil {
		s.Logger.WithError(err).WithField("pizza_id", p.ID).Warn("es reindex failed")
	}
	return p, nil
}

// IndexPizzas pushes every pizza into the search index.
func (s *MenuService) IndexPizzas(ctx context.Context) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	if err := helpers.EnsureESIndex(ctx, s.ES, s.ESIndex, pizzaIndexMapping); err != nil {
		return internalErr(err)
	}
	pizzas, err := s.Repo.ListPizzas(ctx)
	if err != nil {
		return internalErr(err)
	}
	for i := range pizzas {
		if err := s.indexPizza(ctx, &pizzas[i]); err != nil {
			return internalErr(err)
		}
	}
	s.Logger.WithField("count", len(pizzas)).Info("pizzas indexed")
	return nil
}

func (s *MenuService) indexPizza(ctx context.Context, p *entity.Pizza) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return errors.New("es index: " + res.Status())
	}
	return nil
}

// SearchPizzas runs a multi_match on name and description. Without a
// configured index it returns an empty list.
func (s *MenuService) SearchPizzas(ctx context.Context, q string, size int) ([]entity.Pizza, error) {
	if s.ES == nil || s.ESIndex == "" || strings.TrimSpace(q) == "" {
		return []entity.Pizza{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "description"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, internalErr(err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, internalErr(errors.New("es search: " + res.Status()))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source entity.Pizza `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, internalErr(err)
	}
	out := make([]entity.Pizza, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
