package appcontext

import (
	"fmt"
	"os"
	"time"

	"github.com/RoyceAzure/lab/shopcenter/internal/config"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/payment"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/producer"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/repository"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/repository/memory_repo"
	"github.com/RoyceAzure/lab/shopcenter/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/shopcenter/internal/service"
	"github.com/RoyceAzure/lab/shopcenter/internal/token"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ApplicationContext owns every long-lived dependency and the wiring between
// them. Built once at startup, torn down by Shutdown.
type ApplicationContext struct {
	Cf     *config.Config
	Logger zerolog.Logger

	DbConn      *gorm.DB
	DbDao       db.IStore
	RedisClient *redis.Client
	CartRepo    repository.ICartRepository
	Gateway     payment.Gateway
	Producer    producer.IOrderProducer
	TokenMaker  token.Maker

	UserService     service.IUserService
	ProductService  service.IProductService
	CartService     service.ICartService
	CheckoutService service.ICheckoutService
	OrderService    service.IOrderService
	PaymentService  service.IPaymentService
}

func NewApplicationContext(cf *config.Config) (*ApplicationContext, error) {
	app := &ApplicationContext{
		Cf: cf,
		Logger: zerolog.New(os.Stdout).With().
			Timestamp().
			Str("module", cf.ModulerName).
			Logger(),
	}
	if err := app.Init(); err != nil {
		return nil, err
	}
	return app, nil
}

func (app *ApplicationContext) Init() error {
	if err := app.setUpDbConn(); err != nil {
		return err
	}
	if err := app.migrateDb(); err != nil {
		return err
	}
	if err := app.setUpCartRepo(); err != nil {
		return err
	}
	if err := app.setUpTokenMaker(); err != nil {
		return err
	}
	app.setUpGateway()
	app.setUpProducer()
	app.setUpServices()
	return nil
}

func (app *ApplicationContext) setUpDbConn() error {
	app.Logger.Info().Msg("setting up database connection")
	conn, err := db.GetDbConn(app.Cf.DbName, app.Cf.DbHost, app.Cf.DbPort, app.Cf.DbUser, app.Cf.DbPas)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	app.DbConn = conn
	app.DbDao = db.NewStore(conn)
	return nil
}

// migrateDb prefers the versioned SQL migrations; AutoMigrate covers dev
// environments that have no migration files mounted.
func (app *ApplicationContext) migrateDb() error {
	if app.Cf.MigrationURL == "" {
		app.Logger.Info().Msg("no migration url, using auto migrate")
		return db.NewStore(app.DbConn).InitMigrate()
	}

	app.Logger.Info().Str("source", app.Cf.MigrationURL).Msg("running migrations")
	dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
		app.Cf.DbUser, app.Cf.DbPas, app.Cf.DbHost, app.Cf.DbPort, app.Cf.DbName)

	m, err := migrate.New(app.Cf.MigrationURL, dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (app *ApplicationContext) setUpCartRepo() error {
	switch app.Cf.CartStore {
	case "redis":
		app.Logger.Info().Str("addr", app.Cf.RedisAddr).Msg("using redis cart store")
		app.RedisClient = redis.NewClient(&redis.Options{
			Addr:     app.Cf.RedisAddr,
			Password: app.Cf.RedisPassword,
		})
		app.CartRepo = redis_repo.NewCartRepo(app.RedisClient, 0)
	case "memory", "":
		app.Logger.Info().Msg("using in-memory cart store")
		app.CartRepo = memory_repo.NewCartRepo()
	default:
		return fmt.Errorf("unknown cart store %q", app.Cf.CartStore)
	}
	return nil
}

func (app *ApplicationContext) setUpTokenMaker() error {
	maker, err := token.NewHMACMaker(app.Cf.AuthTokenKey)
	if err != nil {
		return fmt.Errorf("failed to create token maker: %w", err)
	}
	app.TokenMaker = maker
	return nil
}

func (app *ApplicationContext) setUpGateway() {
	app.Gateway = payment.NewHTTPGateway(app.Cf.GatewayBaseURL, app.Cf.GatewayAPIKey)
}

func (app *ApplicationContext) setUpProducer() {
	if !app.Cf.KafkaEnabled {
		return
	}
	app.Logger.Info().Strs("brokers", app.Cf.KafkaBrokerList()).
		Str("topic", app.Cf.KafkaTopic).Msg("setting up order event producer")
	app.Producer = producer.NewOrderProducer(app.Cf.KafkaBrokerList(), app.Cf.KafkaTopic)
}

func (app *ApplicationContext) setUpServices() {
	app.UserService = service.NewUserService(app.DbDao, app.TokenMaker)
	app.ProductService = service.NewProductService(app.DbDao)
	app.CartService = service.NewCartService(app.DbDao, app.CartRepo)
	app.CheckoutService = service.NewCheckoutService(app.DbDao, app.CartRepo, app.Producer, app.Logger)
	app.OrderService = service.NewOrderService(app.DbDao, app.Producer, app.Cf.AllowCancelPaid, app.Logger)
	app.PaymentService = service.NewPaymentService(app.DbDao, service.PaymentServiceParams{
		Gateway:                  app.Gateway,
		OrderProducer:            app.Producer,
		WebhookSecret:            app.Cf.GatewayWebhookSecret,
		SuccessURL:               app.Cf.CheckoutSuccessURL,
		CancelURL:                app.Cf.CheckoutCancelURL,
		AutoCancelFailedPayments: app.Cf.AutoCancelFailedPayments,
	}, app.Logger)
}

func (app *ApplicationContext) Shutdown() {
	if app.Producer != nil {
		if err := app.Producer.Close(); err != nil {
			app.Logger.Error().Err(err).Msg("failed to close producer")
		}
	}
	if app.RedisClient != nil {
		if err := app.RedisClient.Close(); err != nil {
			app.Logger.Error().Err(err).Msg("failed to close redis client")
		}
	}
	if app.DbConn != nil {
		if sqlDB, err := app.DbConn.DB(); err == nil {
			sqlDB.Close()
		}
	}
	// give in-flight log writes a moment
	time.Sleep(100 * time.Millisecond)
}
