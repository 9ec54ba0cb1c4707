package cartstore

import (
	"context"

	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/db"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/migrate"
	pkgredis "github.com/angelmondragon/storefront-cart/pkg/redis"
	"go.uber.org/multierr"
)

// Resources bundles the selected slot backend with the connections it owns.
// Redis is also opened for rate limiting whenever it is configured, whatever
// the slot backend.
type Resources struct {
	Store Store
	Redis *pkgredis.Client
	DB    *db.Client
}

// Open connects the configured backend.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Resources, error) {
	res := &Resources{}

	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		client, err := pkgredis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "connecting redis")
		}
		res.Redis = client
	}

	switch {
	case cfg.Storage.UsesRedis():
		if res.Redis == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "redis backend selected without redis configuration")
		}
		res.Store = NewRedisStore(res.Redis, cfg.Storage.SlotTTL)

	case cfg.Storage.UsesSQL():
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, multierr.Append(pkgerrors.Wrap(pkgerrors.CodeDependency, err, "connecting database"), res.Close())
		}
		res.DB = client
		if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
			return nil, multierr.Append(err, res.Close())
		}
		res.Store = NewSQLStore(client.DB(), cfg.Storage.SlotTTL)

	default:
		res.Store = NewMemoryStore()
	}

	logg.Info(logg.WithField(ctx, "backend", res.Store.Name()), "cart storage ready")
	return res, nil
}

// Close releases every connection, collecting all errors.
func (r *Resources) Close() error {
	if r == nil {
		return nil
	}
	var err error
	if r.DB != nil {
		err = multierr.Append(err, r.DB.Close())
	}
	if r.Redis != nil {
		err = multierr.Append(err, r.Redis.Close())
	}
	return err
}
