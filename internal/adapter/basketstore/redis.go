package basketstore

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

var _ port.BasketStore = (*RedisStore)(nil)

const (
	keyPrefix = "basket:"

	maxTxAttempts = 10
)

type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

type redisCmdable interface {
	redisGetter
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// A redisTx is the part of [redis.Tx] used by optimistic updates.
type redisTx interface {
	redisGetter
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
}

// A watchFunc runs fn in a WATCH on key. It returns [redis.TxFailedErr]
// when the key changed before EXEC.
type watchFunc func(ctx context.Context, key string, fn func(redisTx) error) error

func clientWatch(rdb *redis.Client) watchFunc {
	return func(ctx context.Context, key string, fn func(redisTx) error) error {
		return rdb.Watch(ctx, func(tx *redis.Tx) error { return fn(tx) }, key)
	}
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	TLS      *tls.Config
}

// RedisStore persists baskets as JSON documents with an idle TTL.
// Every save extends the TTL.
type RedisStore struct {
	rdb    redisCmdable
	watch  watchFunc
	ttl    time.Duration
	closeF func() error
}

func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	const op = "basketstore.NewRedisStore"

	rdb := redis.NewClient(&redis.Options{
		Addr:      cfg.Addr,
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: cfg.TLS,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RedisStore{
		rdb:    rdb,
		watch:  clientWatch(rdb),
		ttl:    cfg.TTL,
		closeF: rdb.Close,
	}, nil
}

func (s *RedisStore) LoadBasket(
	ctx context.Context, basketID string,
) (domain.Basket, error) {
	const op = "RedisStore.LoadBasket"

	b, err := loadBasket(ctx, s.rdb, basketID)
	if err != nil {
		return domain.Basket{}, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

// UpdateBasket reads and writes the basket inside WATCH/MULTI and
// retries when a concurrent write touched the key.
func (s *RedisStore) UpdateBasket(
	ctx context.Context, basketID string, fn func(*domain.Basket) error,
) (domain.Basket, error) {
	const op = "RedisStore.UpdateBasket"
	log := slog.With("op", op)

	key := keyPrefix + basketID
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		var b domain.Basket
		err := s.watch(ctx, key, func(tx redisTx) error {
			var err error
			b, err = loadBasket(ctx, tx, basketID)
			if err != nil {
				return err
			}
			if err := fn(&b); err != nil {
				return err
			}
			return s.writeTx(ctx, tx, key, b)
		})
		if errors.Is(err, redis.TxFailedErr) {
			log.Debug("basket changed, retrying", "basketID", basketID, "attempt", attempt)
			continue
		}
		if err != nil {
			return domain.Basket{}, fmt.Errorf("%s: %w", op, err)
		}
		return b, nil
	}
	return domain.Basket{}, fmt.Errorf("%s: %w: %q", op, domain.ErrConflict, basketID)
}

func (s *RedisStore) writeTx(
	ctx context.Context, tx redisTx, key string, b domain.Basket,
) error {
	var data []byte
	if !b.IsEmpty() {
		var err error
		if data, err = json.Marshal(newBasketDoc(b)); err != nil {
			return err
		}
	}

	_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if data == nil {
			pipe.Del(ctx, key)
			return nil
		}
		pipe.Set(ctx, key, data, s.ttl)
		return nil
	})
	return err
}

func (s *RedisStore) DeleteBasket(ctx context.Context, basketID string) error {
	const op = "RedisStore.DeleteBasket"

	if err := s.rdb.Del(ctx, keyPrefix+basketID).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func loadBasket(
	ctx context.Context, g redisGetter, basketID string,
) (domain.Basket, error) {
	data, err := g.Get(ctx, keyPrefix+basketID).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.NewBasket(basketID), nil
	}
	if err != nil {
		return domain.Basket{}, err
	}

	var doc basketDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Basket{}, err
	}
	return doc.toDomain(basketID), nil
}

func (s *RedisStore) Close() {
	const op = "RedisStore.Close"
	log := slog.With("op", op)

	if s.closeF == nil {
		return
	}
	if err := s.closeF(); err != nil {
		log.Error("failed to close redis client", "err", err)
		return
	}
	log.Info("redis client is closed")
}

type (
	basketDoc struct {
		Items []itemDoc `json:"items"`
	}

	itemDoc struct {
		ProductID   string          `json:"product_id"`
		Name        string          `json:"name"`
		Slug        string          `json:"slug"`
		ImageURL    string          `json:"image_url,omitempty"`
		Description string          `json:"description,omitempty"`
		Price       decimal.Decimal `json:"price"`
		Stock       int             `json:"stock"`
		Categories  []categoryDoc   `json:"categories,omitempty"`
		Quantity    int             `json:"quantity"`
	}

	categoryDoc struct {
		CategoryID string `json:"id"`
		Title      string `json:"title"`
		Slug       string `json:"slug"`
	}
)

func newBasketDoc(b domain.Basket) basketDoc {
	doc := basketDoc{Items: make([]itemDoc, 0, len(b.Items))}
	for _, item := range b.Items {
		p := item.Product
		d := itemDoc{
			ProductID:   p.ProductID,
			Name:        p.Name,
			Slug:        p.Slug,
			ImageURL:    p.ImageURL,
			Description: p.Description,
			Price:       p.Price,
			Stock:       p.Stock,
			Quantity:    item.Quantity,
		}
		for _, c := range p.Categories {
			d.Categories = append(d.Categories, categoryDoc(c))
		}
		doc.Items = append(doc.Items, d)
	}
	return doc
}

func (doc basketDoc) toDomain(basketID string) domain.Basket {
	b := domain.NewBasket(basketID)
	for _, d := range doc.Items {
		p := domain.Product{
			ProductID:   d.ProductID,
			Name:        d.Name,
			Slug:        d.Slug,
			ImageURL:    d.ImageURL,
			Description: d.Description,
			Price:       d.Price,
			Stock:       d.Stock,
		}
		for _, c := range d.Categories {
			p.Categories = append(p.Categories, domain.CategoryRef(c))
		}
		b.Items = append(b.Items, domain.BasketItem{Product: p, Quantity: d.Quantity})
	}
	return b
}
