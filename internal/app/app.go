package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	config "github.com/zaytuna-store/go-backend/internal/cfg"
	v1Http "github.com/zaytuna-store/go-backend/internal/delivery/v1/http"
	"github.com/zaytuna-store/go-backend/internal/infrastructure/kafka"
	"github.com/zaytuna-store/go-backend/internal/infrastructure/whatsapp"
	s3Repo "github.com/zaytuna-store/go-backend/internal/repository/minio"
	"github.com/zaytuna-store/go-backend/internal/repository/pgdb"
	pgdbConv "github.com/zaytuna-store/go-backend/internal/repository/pgdb/converter"
	"github.com/zaytuna-store/go-backend/internal/repository/redis"
	redisConv "github.com/zaytuna-store/go-backend/internal/repository/redis/converter"
	"github.com/zaytuna-store/go-backend/internal/usecase"
	"github.com/zaytuna-store/go-backend/pkg/clients"
	"github.com/zaytuna-store/go-backend/pkg/closer"
	"github.com/zaytuna-store/go-backend/pkg/e"
	"github.com/zaytuna-store/go-backend/pkg/logger"
	"github.com/zaytuna-store/go-backend/pkg/postgres"
)

const (
	initTimeout     = 10 * time.Second
	shutdownTimeout = 10 * time.Second
	forcedTimeout   = 2 * time.Second
)

// Run собирает все зависимости, запускает HTTP-сервер и outbox-воркер
// и блокируется до сигнала завершения.
func Run(cfg *config.Config, log logger.Logger) error {
	cl := closer.NewCloser(forcedTimeout)

	db, err := initPGDB(log, cfg)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add("postgres pool", func(ctx context.Context) error {
		db.Close()
		return nil
	})

	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.NewProductConverter())
	orderRepo := pgdb.NewOrderRepo(db.Pool, pgdbConv.NewOrderConverter())
	leadRepo := pgdb.NewLeadRepo(db.Pool, pgdbConv.NewLeadConverter())
	userRepo := pgdb.NewUserRepo(db.Pool, pgdbConv.NewUserConverter())
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.NewOutboxEventConverter())

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), initTimeout)
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		minioCancel()
		return e.Wrap(whereami.WhereAmI(), err)
	}
	minioCancel()

	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), initTimeout)
	err = redisClient.Ping(redisCtx)
	redisCancel()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add("redis client", func(ctx context.Context) error {
		return redisClient.Client.Close()
	})

	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.NewProductConverter(), cfg.Redis, log)

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if err := producer.EnsureTopic(initTimeout); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add("kafka producer", func(ctx context.Context) error {
		return producer.Close()
	})

	linkBuilder := whatsapp.NewLinkBuilder(cfg.WhatsApp)

	productUC := usecase.NewProductUC(productRepo, cacheRepo, imageRepo, db.Pool, log)
	orderUC := usecase.NewOrderUC(orderRepo, productRepo, outboxRepo, cacheRepo, db.Pool, log)
	leadUC := usecase.NewLeadUC(leadRepo, productRepo, outboxRepo, cacheRepo, linkBuilder, db.Pool, log)
	userUC := usecase.NewUserUC(userRepo, log)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	worker := kafka.NewOutboxWorker(outboxRepo, log, producer, db.Dsn)
	worker.Start(workerCtx)
	cl.Add("outbox worker", func(ctx context.Context) error {
		workerCancel()
		worker.Stop()
		return nil
	})

	verifier, err := v1Http.NewSvixVerifier(cfg.Auth)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	authMW := v1Http.NewAuthMiddleware(cfg.Auth, userUC, log)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(productUC, orderUC, leadUC, userUC, authMW, verifier)

	httpSrv := v1Http.NewServer(r, cfg.Http)
	cl.Add("http server", func(ctx context.Context) error {
		return httpSrv.Stop(ctx)
	})

	errCh := make(chan error, 1)
	go func() {
		log.Infof("HTTP server started on port %s", cfg.Http.Port)
		if err := httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		log.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		log.Infof("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := cl.Close(shutdownCtx); err != nil {
		log.Warnf("shutdown finished with errors: %v", err)
	}

	log.Infof("Application shutdown complete")

	return appErr
}

func initPGDB(log logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(log); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
