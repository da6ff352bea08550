package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Chinmay1190/stepup-storefront/internal/gateway"
	h "github.com/Chinmay1190/stepup-storefront/internal/http"
	"github.com/Chinmay1190/stepup-storefront/internal/identity"
	"github.com/Chinmay1190/stepup-storefront/internal/localstore"
	"github.com/Chinmay1190/stepup-storefront/internal/metrics"
	"github.com/Chinmay1190/stepup-storefront/internal/order"
	"github.com/Chinmay1190/stepup-storefront/internal/realtime"
	"github.com/Chinmay1190/stepup-storefront/internal/selection"
)

type Config struct {
	HTTPPort        string
	PostgresHost    string
	PostgresPort    int
	PostgresUser    string
	PostgresPass    string
	PostgresDB      string
	MigrationsDir   string
	RedisAddr       string
	KafkaBrokers    []string
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	port, _ := strconv.Atoi(getEnv("POSTGRES_PORT", "5432"))
	var brokers []string
	for _, b := range strings.Split(getEnv("KAFKA_BROKERS", ""), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		PostgresHost:    getEnv("POSTGRES_HOST", ""),
		PostgresPort:    port,
		PostgresUser:    getEnv("POSTGRES_USER", "storefront"),
		PostgresPass:    getEnv("POSTGRES_PASSWORD", "storefront"),
		PostgresDB:      getEnv("POSTGRES_DB", "storefront"),
		MigrationsDir:   getEnv("MIGRATIONS_DIR", "migrations"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		KafkaBrokers:    brokers,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Change feed: Kafka when brokers are configured, else in-process only.
	var feed realtime.Feed
	if len(cfg.KafkaBrokers) > 0 {
		kafkaFeed := realtime.NewKafkaFeed(cfg.KafkaBrokers, "storefront-changes", "storefront")
		defer kafkaFeed.Close()
		go kafkaFeed.Run(ctx)
		feed = kafkaFeed
		log.Printf("Change feed on Kafka at %v", cfg.KafkaBrokers)
	} else {
		feed = realtime.NewHub()
		log.Printf("Change feed in-process")
	}

	// Persistent store gateway: Postgres when configured, else in-memory.
	var wishlistStore gateway.WishlistStore
	var orderStore gateway.OrderStore
	if cfg.PostgresHost != "" {
		cred := &gateway.Credentials{
			Host:              cfg.PostgresHost,
			Port:              cfg.PostgresPort,
			User:              cfg.PostgresUser,
			Password:          cfg.PostgresPass,
			DBName:            cfg.PostgresDB,
			MigrationsDirPath: cfg.MigrationsDir,
		}
		pg, err := gateway.NewPostgresGateway(cred, feed)
		if err != nil {
			log.Fatalf("Failed to connect to postgres: %v", err)
		}
		defer pg.Close()
		if err := pg.RunMigrations(cred); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		wishlistStore = pg
		orderStore = pg
		log.Printf("Connected to postgres at %s:%d", cfg.PostgresHost, cfg.PostgresPort)
	} else {
		mem := gateway.NewMemoryGateway(feed)
		wishlistStore = mem
		orderStore = mem
		log.Printf("Using in-memory gateway")
	}
	wishlistStore = gateway.NewBreakerWishlistStore(wishlistStore)

	// Durable local cache: Redis when configured, else in-memory.
	var local localstore.Store
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Redis connection failed: %v", err)
		}
		local = localstore.NewRedisStore(redisClient)
		log.Printf("Connected to redis at %s", cfg.RedisAddr)
	} else {
		local = localstore.NewMemoryStore()
		log.Printf("Using in-memory local store")
	}

	accounts := identity.NewRegistry()
	m := metrics.New(prometheus.DefaultRegisterer)
	pipeline := order.NewPipeline(orderStore, m)
	history := order.NewHistory(orderStore)

	// Identity is scoped per session: sessions share the account registry
	// but each signs in and out on its own.
	sessions := h.NewSessionStore(func(id string) *h.Session {
		ident := accounts.Session()
		return &h.Session{
			ID:       id,
			Identity: ident,
			Wishlist: selection.NewWishlist(selection.WishlistConfig{
				Store:    wishlistStore,
				Local:    local,
				CacheKey: id + ":wishlist",
				Feed:     feed,
				Identity: ident,
				Metrics:  m,
			}),
			Cart: selection.NewCart(selection.CartConfig{
				Local:    local,
				CacheKey: id + ":cart",
				Identity: ident,
				Metrics:  m,
			}),
		}
	})

	router := h.NewRouter(h.RouterDeps{
		Sessions: sessions,
		Pipeline: pipeline,
		History:  history,
	})

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: otelhttp.NewHandler(router, "storefront"),
	}

	go func() {
		log.Printf("Storefront listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down storefront...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	stop()
	log.Println("Storefront stopped")
}
