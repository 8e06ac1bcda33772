// Package redisstore implements catalog.Store on Redis: one hash per product
// plus a sorted set ordering ids by last write.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/petshop-catalog-service/internal/catalog"
	"github.com/fairyhunter13/petshop-catalog-service/internal/model"
	"github.com/fairyhunter13/petshop-catalog-service/internal/store"
)

const (
	productKeyPrefix = "petshop:product:"
	recencyKey       = "petshop:products:by_updated"
)

// ErrConflict is returned when a concurrent write touched the same product
// between read and commit.
var ErrConflict = errors.New("concurrent product write")

// Connect initializes a Redis client from URL or host:port input.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	var client *redis.Client
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: redisURL})
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Store is a catalog.Store over Redis.
type Store struct {
	client *redis.Client
	now    func() time.Time
}

// New wraps a connected client.
func New(client *redis.Client) *Store {
	return &Store{client: client, now: time.Now}
}

// SetClock replaces the time source used for UpdatedAt.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

// Close releases the client.
func (s *Store) Close() error { return s.client.Close() }

func (s *Store) List(ctx context.Context) ([]model.Product, error) {
	ids, err := s.client.ZRevRange(ctx, recencyKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list product ids: %w", err)
	}
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	if _, err := s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = p.HGetAll(ctx, productKeyPrefix+id)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	out := make([]model.Product, 0, len(ids))
	for i, cmd := range cmds {
		vals := cmd.Val()
		if len(vals) == 0 {
			continue
		}
		p, err := decode(ids[i], vals)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	store.SortByRecency(out)
	return out, nil
}

func (s *Store) Insert(ctx context.Context, fields model.ProductFields) (model.Product, error) {
	p := fields.Merge(model.Product{ProductID: catalog.NewProductID()})
	p.UpdatedAt = catalog.NextWriteTime(time.Time{}, s.now())
	if _, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, productKeyPrefix+p.ProductID, encode(p))
		pipe.ZAdd(ctx, recencyKey, redis.Z{Score: float64(p.UpdatedAt.UnixMicro()), Member: p.ProductID})
		return nil
	}); err != nil {
		return model.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (s *Store) Get(ctx context.Context, id string) (model.Product, error) {
	vals, err := s.client.HGetAll(ctx, productKeyPrefix+id).Result()
	if err != nil {
		return model.Product{}, fmt.Errorf("get product: %w", err)
	}
	if len(vals) == 0 {
		return model.Product{}, catalog.ErrNotFound
	}
	return decode(id, vals)
}

func (s *Store) Replace(ctx context.Context, id string, fields model.ProductFields) (model.Product, error) {
	return s.write(ctx, id, fields.Replace)
}

func (s *Store) Merge(ctx context.Context, id string, fields model.ProductFields) (model.Product, error) {
	return s.write(ctx, id, fields.Merge)
}

func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	var del *redis.IntCmd
	if _, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, productKeyPrefix+id)
		pipe.ZRem(ctx, recencyKey, id)
		return nil
	}); err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return del.Val() > 0, nil
}

// write applies a read-modify-write under WATCH so the update commits only if
// no other client changed the product in between.
func (s *Store) write(ctx context.Context, id string, apply func(model.Product) model.Product) (model.Product, error) {
	key := productKeyPrefix + id
	var out model.Product
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		vals, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}
		if len(vals) == 0 {
			return catalog.ErrNotFound
		}
		cur, err := decode(id, vals)
		if err != nil {
			return err
		}
		next := apply(cur)
		next.ProductID = id
		next.UpdatedAt = catalog.NextWriteTime(cur.UpdatedAt, s.now())
		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, encode(next))
			pipe.ZAdd(ctx, recencyKey, redis.Z{Score: float64(next.UpdatedAt.UnixMicro()), Member: id})
			return nil
		}); err != nil {
			return err
		}
		out = next
		return nil
	}, key)
	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, catalog.ErrNotFound):
		return model.Product{}, err
	case errors.Is(err, redis.TxFailedErr):
		return model.Product{}, ErrConflict
	default:
		return model.Product{}, fmt.Errorf("write product: %w", err)
	}
}

func encode(p model.Product) map[string]any {
	return map[string]any{
		"name":           p.Name,
		"price":          strconv.FormatFloat(p.Price, 'f', -1, 64),
		"currency":       p.Currency,
		"category":       p.Category,
		"status":         p.Status,
		"target_species": p.TargetSpecies,
		"description":    p.Description,
		"updated_at":     strconv.FormatInt(p.UpdatedAt.UnixMicro(), 10),
	}
}

func decode(id string, vals map[string]string) (model.Product, error) {
	price, err := strconv.ParseFloat(vals["price"], 64)
	if err != nil {
		return model.Product{}, fmt.Errorf("decode product %s price: %w", id, err)
	}
	micros, err := strconv.ParseInt(vals["updated_at"], 10, 64)
	if err != nil {
		return model.Product{}, fmt.Errorf("decode product %s updated_at: %w", id, err)
	}
	return model.Product{
		ProductID:     id,
		Name:          vals["name"],
		Price:         price,
		Currency:      vals["currency"],
		Category:      vals["category"],
		Status:        vals["status"],
		TargetSpecies: vals["target_species"],
		Description:   vals["description"],
		UpdatedAt:     time.UnixMicro(micros).UTC(),
	}, nil
}
