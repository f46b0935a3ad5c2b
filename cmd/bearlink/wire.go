package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/atinyakov/bearlink/internal/app/server"
	grpcserver "github.com/atinyakov/bearlink/internal/app/server/grpc"
	"github.com/atinyakov/bearlink/internal/app/service"
	"github.com/atinyakov/bearlink/internal/config"
	"github.com/atinyakov/bearlink/internal/kv"
	"github.com/atinyakov/bearlink/internal/notify"
	"github.com/atinyakov/bearlink/internal/preview"
	"github.com/atinyakov/bearlink/internal/repository"
	"github.com/atinyakov/bearlink/internal/storage"
	"github.com/atinyakov/bearlink/internal/worker"

	_ "net/http/pprof"
)

const (
	pprofAddr       = "localhost:6060"
	shutdownTimeout = 10 * time.Second
	badgerGCPeriod  = 5 * time.Minute
)

func openLinkStore(ctx context.Context, opts *config.Options, logger *zap.Logger) (storage.LinkStore, func(), error) {
	if opts.DatabaseDSN == "" {
		logger.Info("using in memory link storage")
		return storage.CreateMemoryStorage(), func() {}, nil
	}

	logger.Info("using postgres link storage")
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := repository.InitDB(initCtx, opts.DatabaseDSN, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init database: %w", err)
	}
	return repository.NewLinkRepository(db, logger), func() { closeDB(db, logger) }, nil
}

func closeDB(db *sql.DB, logger *zap.Logger) {
	if err := db.Close(); err != nil {
		logger.Warn("close database", zap.Error(err))
	}
}

// openKV picks the backend of the guard, queue and preview cache: Redis
// when an address is set, else badger when a directory is set, else memory.
func openKV(ctx context.Context, opts *config.Options, logger *zap.Logger) (kv.Store, error) {
	switch {
	case opts.RedisAddr != "":
		logger.Info("using redis", zap.String("addr", opts.RedisAddr))
		store := kv.NewRedisStore(kv.RedisOptions{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return store, nil
	case opts.BadgerPath != "":
		logger.Info("using badger", zap.String("path", opts.BadgerPath))
		return kv.OpenBadgerStore(kv.BadgerOptions{Path: opts.BadgerPath}, logger)
	default:
		logger.Info("using in memory guard, queue and cache")
		return kv.NewMemoryStore(), nil
	}
}

func newResolver(opts *config.Options, store kv.Store, logger *zap.Logger) *preview.Resolver {
	client := &http.Client{Timeout: opts.FetchTimeout}

	var video preview.VideoClient = preview.NewOEmbedClient(client, "")
	if opts.YouTubeAPIKey != "" {
		video = preview.NewDataAPIClient(client, "", opts.YouTubeAPIKey)
	}

	var robots *preview.RobotsChecker
	if opts.RespectRobots {
		robots = preview.NewRobotsChecker(client, opts.FetchUserAgent)
	}

	dispatcher := preview.NewDispatcher(
		preview.NewVideoStrategy(video, opts.FetchTimeout, logger),
		preview.NewGenericStrategy(preview.NewHTTPFetcher(client, opts.FetchUserAgent, robots), opts.FetchTimeout, logger),
	)
	return preview.NewResolver(preview.NewCache(store, opts.PreviewCacheTTL), dispatcher, logger)
}

func newHTTPServer(opts *config.Options, handler http.Handler) *http.Server {
	srv := &http.Server{
		Addr:              opts.ServerAddress,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if opts.EnableHTTPS {
		manager := &autocert.Manager{
			Cache:      autocert.DirCache("cache-dir"),
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist("bearlink.app", "www.bearlink.app"),
		}
		srv.Addr = ":443"
		srv.TLSConfig = manager.TLSConfig()
	}
	return srv
}

// run wires every component and blocks until ctx is cancelled or one of
// the servers fails.
func run(ctx context.Context, opts *config.Options, logger *zap.Logger) error {
	links, closeLinks, err := openLinkStore(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer closeLinks()

	shared, err := openKV(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := shared.Close(); err != nil {
			logger.Warn("close key-value store", zap.Error(err))
		}
	}()

	if opts.JWTSecret == "" {
		logger.Warn("JWT secret is not configured, using the development secret")
	}
	auth := service.NewAuth(opts.JWTSecret)

	hub := notify.NewHub(links, logger)
	defer hub.Close()

	queue := preview.NewQueue(shared)
	svc := service.NewLinkService(links, preview.NewGuard(shared, opts.GuardTTL), queue, logger).
		WithPublisher(hub)

	resolution := worker.NewResolutionWorker(logger, links, queue, newResolver(opts, shared, logger), worker.Options{
		Interval:    opts.WorkerInterval,
		Lease:       opts.ClaimLease,
		Concurrency: opts.WorkerConcurrency,
	}).WithNotifier(hub)

	httpServer := newHTTPServer(opts, server.Init(svc, auth, hub, logger, opts.TrustedSubnet))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return resolution.Run(gctx)
	})

	if badgerStore, ok := shared.(*kv.BadgerStore); ok {
		g.Go(func() error {
			badgerStore.RunGC(gctx, badgerGCPeriod)
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("HTTP server is running",
			zap.String("addr", httpServer.Addr),
			zap.Bool("tls", opts.EnableHTTPS),
		)
		var err error
		if opts.EnableHTTPS {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if opts.GRPCAddress != "" {
		grpcServer := grpcserver.New(opts.GRPCAddress, opts.TrustedSubnet, logger, svc, auth)
		grpcServer.SetServing(true)

		g.Go(func() error {
			if err := grpcServer.Start(); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			grpcServer.GracefulStop()
			return nil
		})
	}

	if opts.EnablePprof {
		pprofServer := &http.Server{Addr: pprofAddr, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			logger.Info("Starting pprof server", zap.String("addr", pprofAddr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("pprof server error", zap.Error(err))
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return pprofServer.Close()
		})
	}

	return g.Wait()
}
