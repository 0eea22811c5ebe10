package router

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pizza-api/config"
	"github.com/oksasatya/go-pizza-api/internal/application"
	"github.com/oksasatya/go-pizza-api/internal/container"
	repo "github.com/oksasatya/go-pizza-api/internal/domain/repository"
	"github.com/oksasatya/go-pizza-api/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-pizza-api/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/go-pizza-api/internal/interface/http"
	"github.com/oksasatya/go-pizza-api/internal/router/modules"
	"github.com/oksasatya/go-pizza-api/pkg/helpers"
	"github.com/oksasatya/go-pizza-api/pkg/mailer"
)

// Storage is the set of repositories one backend provides.
type Storage struct {
	Users   repo.UserRepository
	Revoked repo.RevokedTokenRepository
	Menu    repo.MenuRepository
	Orders  repo.OrderRepository
	Tx      repo.Transactor
}

func PostgresStorage(pool *pgxpool.Pool) Storage {
	return Storage{
		Users:   pginfra.NewUserRepository(pool),
		Revoked: pginfra.NewRevokedTokenRepository(pool),
		Menu:    pginfra.NewMenuRepository(pool),
		Orders:  pginfra.NewOrderRepository(pool),
		Tx:      pginfra.NewTxManager(pool),
	}
}

func MemoryStorage(s *memory.Store) Storage {
	return Storage{
		Users:   s.Users(),
		Revoked: s.RevokedTokens(),
		Menu:    s.Menu(),
		Orders:  s.Orders(),
		Tx:      s,
	}
}

// Services are the application services the HTTP modules are built on.
type Services struct {
	Identity *application.IdentityService
	Menu     *application.MenuService
	Orders   *application.OrderService
}

// BuildServices wires the application layer from cfg, a storage backend and
// the optional infrastructure held by the container.
func BuildServices(cfg *config.Config, st Storage, notifier application.Notifier, logger *logrus.Logger) Services {
	identity := application.NewIdentityService(
		st.Users,
		st.Revoked,
		st.Tx,
		helpers.NewPasswordHasher(cfg.BcryptCost),
		helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL),
		helpers.NewSignedTokenCodec(cfg.SignedTokenSecret),
		notifier,
		logger,
		application.IdentityOptions{
			ActivationMaxAge:    cfg.ActivationMaxAge,
			PasswordResetMaxAge: cfg.PasswordResetMaxAge,
		},
	)

	var cache redis.Cmdable
	if rdb := container.GetRedis(); rdb != nil {
		cache = rdb
	}
	var images application.ImageStore
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		images = &helpers.GCSUploader{Client: gcs, Bucket: cfg.GCSBucket}
	}
	menu := application.NewMenuService(st.Menu, cache, cfg.MenuCacheTTL, container.GetES(), cfg.ESPizzasIndex, images, logger)

	orders := application.NewOrderService(st.Menu, st.Orders, st.Tx, notifier, logger)

	return Services{Identity: identity, Menu: menu, Orders: orders}
}

// DefaultNotifier queues emails through RabbitMQ when sending is enabled and
// a publisher is available, otherwise it only logs.
func DefaultNotifier(cfg *config.Config, logger *logrus.Logger) application.Notifier {
	if pub := container.GetRabbitPub(); cfg.MailSendEnabled && pub != nil {
		return mailer.NewQueueNotifier(cfg, pub, logger)
	}
	return mailer.NewLogNotifier(logger)
}

func buildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	return BuildServices(cfg, PostgresStorage(container.GetPGPool()), DefaultNotifier(cfg, logger), logger)
}

// InitModules wires every module from the container singletons and adds it to r.
// Call once during startup, after the container is populated.
func InitModules(r *Registry) Services {
	svc := buildServices()
	InitModulesWith(r, container.GetConfig(), svc)
	return svc
}

// InitModulesWith registers the modules for already built services.
func InitModulesWith(r *Registry, cfg *config.Config, svc Services) {
	logger := container.GetLogger()

	userHandler := handlers.NewUserHandler(svc.Identity, logger, cfg.CookieDomain, cfg.CookieSecure, cfg.ForgotPasswordRevealUnknown)
	r.Add(modules.NewUserModule(userHandler, svc.Identity))
	r.Add(modules.NewMenuModule(handlers.NewMenuHandler(svc.Menu, logger), svc.Identity))
	r.Add(modules.NewOrderModule(handlers.NewOrderHandler(svc.Orders, logger)))

	if cfg.DebugMetricsEnabled {
		r.AddRoot(modules.NewDebugModule())
	}
}
