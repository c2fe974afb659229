package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/Pawe2l37/todo-api/internal/config"
	"github.com/Pawe2l37/todo-api/internal/handler"
	"github.com/Pawe2l37/todo-api/internal/repo"
	"github.com/Pawe2l37/todo-api/internal/service"
	"github.com/Pawe2l37/todo-api/internal/worker"
)

func main() {
	// Подключаем логгер
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Загрузка конфигурации
	cfg := config.Load()

	// Подключаем БД
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to Database.")
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal("Failed to ping the Database.")
	}
	logger.Info("Successfully connected to the Database!")

	// Явная инициализация схемы, не side effect при импорте
	if err := repo.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal("Migration failed", zap.Error(err))
	}

	todoRepo := repo.NewTodoRepo(pool)
	userRepo := repo.NewUserRepo(pool)

	todoService := service.NewTodoService(todoRepo)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)

	todoHandler := handler.NewTodoHandler(todoService, logger)
	authHandler := handler.NewAuthHandler(authService, logger)

	r := chi.NewRouter() // Создаем роутер
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok"}`)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", authHandler.Register)
		r.Post("/token", authHandler.Token)

		r.Group(func(r chi.Router) {
			r.Use(handler.RequireAuth(authService))

			r.Get("/users/me", authHandler.Me)
			r.Get("/stats", todoHandler.Stats)

			r.Route("/todos", func(r chi.Router) {
				r.Post("/", todoHandler.Create)
				r.Get("/", todoHandler.List)
				r.Get("/{id}", todoHandler.Get)
				r.Put("/{id}", todoHandler.Update)
				r.Delete("/{id}", todoHandler.Delete)
			})
		})
	})

	// Фоновая пометка просроченных задач
	workerCtx, workerCancel := context.WithCancel(context.Background())
	sweeper := worker.NewSweeper(pool, logger, cfg.WorkerCount, cfg.SweepInterval)
	sweeper.Start(workerCtx)

	srv := http.Server{ // Создаем сервер
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started at ", zap.String("port", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed: ", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	workerCancel()
	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Shutdown error: ", zap.Error(err))
	}
	logger.Info("Server stopped succsessfully!")
}
