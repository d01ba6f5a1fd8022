// Package clinicrecord собирает приложение сервиса клинических карт:
// хранилище, миграции, кеш, точку рассылки событий, сервисы и HTTP-сервер.
package clinicrecord

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/clinicboard/clinic-record-service/internal/broadcast"
	"github.com/clinicboard/clinic-record-service/internal/cache"
	"github.com/clinicboard/clinic-record-service/internal/config"
	"github.com/clinicboard/clinic-record-service/internal/lib/jwt"
	"github.com/clinicboard/clinic-record-service/internal/migrations"
	authservice "github.com/clinicboard/clinic-record-service/internal/services/auth"
	drugservice "github.com/clinicboard/clinic-record-service/internal/services/drug"
	patientservice "github.com/clinicboard/clinic-record-service/internal/services/patient"
	"github.com/clinicboard/clinic-record-service/internal/storage/repository"
)

// App хранит собранные компоненты приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New собирает приложение из конфигурации: открывает хранилище, применяет
// миграции, поднимает кеш и регистрирует маршруты.
//
// Если секрет подписи токенов не задан в конфигурации, генерируется
// случайный 256-битный секрет; перезапуск процесса в этом случае
// инвалидирует все ранее выпущенные токены.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	secretKey := cfg.JWTToken.JWTSecretKey
	if secretKey == "" {
		secretKey, err = jwt.NewRandomSecret()
		if err != nil {
			return nil, err
		}
		logger.Warn("jwt secret is not configured, generated a random one; " +
			"restart will invalidate issued tokens")
	}
	jwtMaker := jwt.NewJWTMaker(secretKey, cfg.JWTToken.TokenTTL)

	hub := broadcast.NewHub(logger)

	authSvc := authservice.NewAuthService(db, jwtMaker, cacheRedis, hub, logger)
	patientSvc := patientservice.NewPatientService(db, db, cacheRedis, hub, logger)
	drugSvc := drugservice.NewDrugService(db, cacheRedis, hub, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, db, hub, authSvc, patientSvc, drugSvc)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
