// Package main содержит точку входа серверного приложения auth-portal.
//
// Пакет отвечает за инициализацию и жизненный цикл HTTP(S)-сервера, а именно:
//   - загрузку переменных окружения из файла .env (если он присутствует);
//   - загрузку конфигурации сервера из файла ./configs/server.yaml;
//   - инициализацию подключения к базе данных (и Redis при sessions.store=redis);
//   - создание репозиториев, сервисов, middleware и HTTP-обработчиков;
//   - выбор роутера (table или convention) согласно конфигу;
//   - настройку и запуск HTTP(S)-сервера с заданными таймаутами;
//   - фоновую чистку протухших сессий;
//   - обработку системных сигналов завершения (SIGINT, SIGTERM, SIGQUIT);
//   - корректное (graceful) завершение работы сервера с таймаутом.
//
// Пакет не содержит бизнес-логики и не предназначен для unit-тестирования.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/api"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/config"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/middleware"
	h "github.com/IvanChernomyrdin/go-auth-portal/internal/server/net/http"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/repository"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/service"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/server/view"
	"github.com/IvanChernomyrdin/go-auth-portal/internal/shared/logger"
)

func main() {
	httpLogger := logger.NewHTTPLogger()
	sugar := httpLogger.Logger.Sugar()

	if err := godotenv.Load(); err != nil {
		sugar.Warnf("no .env file loaded, error: %v", err)
	}

	cfg, err := config.Load("./configs/server.yaml")
	if err != nil {
		sugar.Fatal(err)
	}

	// подключаем базу данных (и прогоняем миграции, если включены)
	if err := config.Init(cfg.DB, cfg.Migrations); err != nil {
		sugar.Fatal(err)
	}

	// возвращаем указатель на db
	db := config.GetDB()
	// делаем отложенное закрытие бд
	defer func() {
		if db != nil {
			db.Close()
		}
	}()

	// создаём репы; хранилище сессий выбирается конфигом
	usersRepo := repository.NewUsersRepository(db)

	var sessionsRepo service.SessionsRepo
	switch cfg.Sessions.Store {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		sessionsRepo = repository.NewRedisSessionsRepository(rdb)
	default:
		sessionsRepo = repository.NewSessionsRepository(db)
	}

	// складываем в репозиторий
	repos := service.Repositories{
		Users:    usersRepo,
		Sessions: sessionsRepo,
	}
	// создаём сервис
	svc := service.NewServices(repos, cfg)

	// middleware сессий
	sm := middleware.NewSessionManager(
		sessionsRepo,
		cfg.Sessions.CookieName,
		cfg.Sessions.TTL,
		cfg.Sessions.CookieSecure,
	)

	// рендерер шаблонов
	views := view.NewRenderer(httpLogger.Logger)

	// выбираем роутер: явная таблица или convention-диспетчер
	var (
		paths  api.Paths
		router http.Handler
	)
	switch cfg.Server.Router {
	case "convention":
		paths = h.ConventionPaths()
		handler := api.NewHandler(svc, httpLogger, views, paths)
		router = h.NewConventionRouter(handler, sm)
	default:
		paths = h.TablePaths()
		handler := api.NewHandler(svc, httpLogger, views, paths)
		router = h.NewRouter(handler, sm)
	}

	//создаём сервер
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// создаём контекст и errgroup
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// запускаем сервер
	g.Go(func() error {
		sugar.Infof("server started on %s (router=%s, sessions=%s)",
			addr, cfg.Server.Router, cfg.Sessions.Store)

		var err error
		if cfg.TLS.Enabled {
			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// фоновая чистка протухших сессий (для Redis чистит TTL самого Redis)
	if cfg.Sessions.Store == "db" {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.Sessions.CleanupInterval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					n, err := sessionsRepo.DeleteExpired(ctx)
					if err != nil {
						sugar.Warnf("session cleanup failed: %v", err)
						continue
					}
					if n > 0 {
						sugar.Infof("session cleanup removed %d expired sessions", n)
					}
				}
			}
		})
	}

	// graceful shutdown с таймаутом из конфига
	g.Go(func() error {
		<-ctx.Done()

		sugar.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			cfg.Server.ShutdownTimeout,
		)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	// ожидание и единная обработка ошибок
	if err := g.Wait(); err != nil {
		sugar.Fatalf("server stopped with error: %v", err)
	}
	sugar.Info("server gracefully stopped")
}
