package components

import (
	"tablebook/internal/infra/cache"
	"tablebook/internal/infra/readstore"
	"tablebook/internal/infra/uow"
	"tablebook/internal/pkg/config"
	"tablebook/internal/usecase/queries"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	readstoreModule,
	repositoryModule,
	cacheModule,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Reservation
		fx.Annotate(
			readstore.NewReservationReadStore,
			fx.As(new(queries.ReservationReadStore)),
		),
		// User
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		uow.NewPostgresUoW,
	),
)

var cacheModule = fx.Module("persistence/cache",
	fx.Provide(
		fx.Annotate(
			NewTodayCache,
			fx.As(new(queries.TodayCache)),
		),
	),
)

func NewTodayCache(client *redis.Client, cfg config.Config) *cache.ReservationCache {
	return cache.NewReservationCache(client, cfg.Redis.TodayTTL)
}
