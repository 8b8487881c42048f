// Package server initializes and runs the main application server.
// It opens the database, applies migrations, wires the optional cache and
// the service layer, handles graceful shutdown and starts the HTTP API.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/sealedchat/sealedchat/internal/logging"
	"github.com/sealedchat/sealedchat/internal/server/config"
	"github.com/sealedchat/sealedchat/internal/server/httpapi"
	"github.com/sealedchat/sealedchat/internal/server/repositories/repomanager"
	"github.com/sealedchat/sealedchat/internal/server/repositories/userscache"
	"github.com/sealedchat/sealedchat/internal/server/services"
)

type App struct {
	config            *config.Config
	logger            logging.Logger
	db                *sql.DB
	userService       *services.UserService
	chatService       *services.ChatService
	attachmentService *services.AttachmentService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	// The cache is optional; a nil *Cache is a valid no-op.
	var cache *userscache.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		cache = userscache.New(rdb, cfg.CacheTTL)
	}

	us := services.NewUserService(db, rm, cache, cfg)
	cs := services.NewChatService(db, rm, cache)
	as := services.NewAttachmentService(cfg)

	return &App{
		config:            cfg,
		logger:            logger,
		db:                db,
		userService:       us,
		chatService:       cs,
		attachmentService: as,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddr, app.logger,
		app.userService, app.chatService, app.attachmentService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
