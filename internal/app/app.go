package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"postsapi/config"
	"postsapi/internal/adapter/in/httpapi"
	"postsapi/internal/adapter/out/clock"
	"postsapi/internal/service"
	"postsapi/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg    config.Config
	srv    *http.Server
	engine engine
}

func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	log := logger.FromContext(ctx)

	eng, err := openEngine(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	postSvc := service.NewPostService(eng.posts, eng.trManager, clock.System{})

	router, err := httpapi.NewRouter(postSvc, log)
	if err != nil {
		eng.close()
		return nil, err
	}

	addr := ":" + cfg.HTTP.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	family, _ := cfg.Database.Family()
	log.Info("app initialized", "addr", addr, "storage", family)
	return &App{cfg: cfg, srv: srv, engine: eng}, nil
}

// Run serves until ctx is cancelled or the server fails. The storage engine
// is closed on both paths.
func (a *App) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	defer a.engine.close()

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.srv.Shutdown(shCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil

	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
