package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/rl1809/canteen/internal/adapter/handler"
	"github.com/rl1809/canteen/internal/adapter/handler/rpc"
	"github.com/rl1809/canteen/internal/adapter/queue"
	"github.com/rl1809/canteen/internal/adapter/storage"
	"github.com/rl1809/canteen/internal/config"
	"github.com/rl1809/canteen/internal/core/catalog"
	"github.com/rl1809/canteen/internal/core/images"
	"github.com/rl1809/canteen/internal/core/service"
	"github.com/rl1809/canteen/internal/port"
	"github.com/rl1809/canteen/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatalw("server exited", "error", err)
	}
}

func newLogger(cfg config.Config) *zap.SugaredLogger {
	var (
		base *zap.Logger
		err  error
	)
	if cfg.Production() {
		base, err = zap.NewProduction()
	} else {
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return base.Sugar()
}

// backends holds whichever external stores are configured. Missing ones
// fall back to in-process adapters.
type backends struct {
	cache    port.CacheRepository
	accounts port.AccountRepository
	orders   port.OrderRepository
	sinks    []worker.Sink
	health   map[string]handler.Pinger
	closers  []func()
}

func (b *backends) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func connect(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) (*backends, error) {
	b := &backends{health: make(map[string]handler.Pinger)}

	// MySQL
	if cfg.MySQLDSN != "" {
		db, err := storage.OpenMySQL(cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
		b.closers = append(b.closers, func() { db.Close() })

		mysqlAdapter := storage.NewMySQLAdapter(db)
		if err := mysqlAdapter.Ping(ctx); err != nil {
			b.close()
			return nil, fmt.Errorf("ping mysql: %w", err)
		}
		if err := mysqlAdapter.EnsureSchema(ctx); err != nil {
			b.close()
			return nil, err
		}

		b.accounts = mysqlAdapter
		b.orders = mysqlAdapter
		b.sinks = append(b.sinks, worker.NewOrderSink(mysqlAdapter))
		b.health["mysql"] = mysqlAdapter
		logger.Infow("connected to mysql")
	} else {
		b.accounts = storage.NewMemoryAccounts()
		logger.Warnw("MYSQL_DSN not set, accounts and orders are kept in memory")
	}

	// Redis
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			PoolSize: 100,
		})
		b.closers = append(b.closers, func() { rdb.Close() })

		redisAdapter := storage.NewRedisAdapter(rdb)
		if err := redisAdapter.Ping(ctx); err != nil {
			b.close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}

		b.cache = redisAdapter
		b.health["redis"] = redisAdapter
		logger.Infow("connected to redis", "addr", cfg.RedisAddr)
	} else {
		b.cache = storage.NewMemoryCache()
		logger.Warnw("REDIS_ADDR not set, sessions and idempotency keys are kept in memory")
	}

	// MongoDB
	if cfg.MongoURI != "" {
		mongoAdapter, err := storage.NewMongoAdapter(storage.MongoConfig{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
			Timeout:  10 * time.Second,
		})
		if err != nil {
			b.close()
			return nil, err
		}
		b.closers = append(b.closers, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			mongoAdapter.Close(closeCtx)
		})

		if err := mongoAdapter.CreateIndexes(ctx); err != nil {
			b.close()
			return nil, err
		}

		b.sinks = append(b.sinks, worker.NewAuditSink(mongoAdapter))
		b.health["mongo"] = mongoAdapter
		logger.Infow("connected to mongodb", "database", cfg.MongoDatabase)
	}

	// RabbitMQ
	if cfg.RabbitMQURL != "" {
		publisher, err := queue.NewRabbitMQPublisher(queue.Config{
			URL:        cfg.RabbitMQURL,
			MaxRetries: 3,
			RetryDelay: 100 * time.Millisecond,
		})
		if err != nil {
			b.close()
			return nil, err
		}
		b.closers = append(b.closers, func() { publisher.Close() })

		b.sinks = append(b.sinks, worker.NewPublishSink(publisher))
		logger.Infow("connected to rabbitmq", "queue", queue.QueueCanteenEvents)
	}

	return b, nil
}

func run(cfg config.Config, logger *zap.SugaredLogger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	b, err := connect(ctx, cfg, logger)
	cancel()
	if err != nil {
		return err
	}
	defer b.close()

	// Event pipeline
	pool := worker.NewPool(worker.Config{
		Workers:   cfg.WorkerCount,
		QueueSize: cfg.QueueSize,
		Timeout:   5 * time.Second,
	}, logger, b.sinks...)

	// Services
	store := catalog.NewSeeded()
	resolver := images.NewDefaultResolver()
	menuService := service.NewMenuService(store, pool, logger)
	orderService := service.NewOrderService(store, b.cache, pool, b.orders, logger)
	accountService := service.NewAccountService(b.accounts, b.cache, cfg.AccountDomain, cfg.SessionTTL, logger)
	logger.Infow("catalog seeded", "items", store.Len())

	// gRPC server
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(handler.UnaryLogger(logger)))
	rpc.RegisterCanteenServiceServer(grpcServer, handler.NewGRPCHandler(menuService, orderService, accountService, resolver))

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		pool.Close()
		return fmt.Errorf("listen %s: %w", cfg.GRPCAddr, err)
	}

	// HTTP server
	httpHandler := handler.NewHTTPHandler(menuService, orderService, accountService, resolver, b.health, logger)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpHandler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Infow("gRPC server listening", "addr", cfg.GRPCAddr)
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		logger.Infow("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Infow("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warnw("HTTP shutdown", "error", err)
		}
		logger.Infow("HTTP server stopped")

		grpcServer.GracefulStop()
		logger.Infow("gRPC server stopped")
		return nil
	})

	err = g.Wait()

	// Drain queued events before the sinks' connections go away
	pool.Close()
	logger.Infow("connections closing", "pending_orders", orderService.PendingOrders())

	return err
}
