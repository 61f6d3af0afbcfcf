package main

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/timetracking-api/internal/config"
	"github.com/timetracking-api/internal/domain"
	"github.com/timetracking-api/internal/handler"
	"github.com/timetracking-api/internal/repository"
	"github.com/timetracking-api/internal/service"
	"github.com/timetracking-api/pkg/token"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

//go:embed migrations
var embedMigrations embed.FS

func main() {
	// Инициализация логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg := config.Load()

	// Подключение к БД
	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("failed to get sql.DB", slog.Any("error", err))
		os.Exit(1)
	}
	defer sqlDB.Close()

	// Подготовка схемы: goose для postgres, AutoMigrate для sqlite
	if err := prepareSchema(cfg.Database, db, sqlDB); err != nil {
		logger.Error("failed to prepare database schema", slog.Any("error", err))
		os.Exit(1)
	}

	// Инициализация репозиториев
	personRepo := repository.NewPersonRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	hoursRepo := repository.NewHoursRepository(db)

	// Менеджер токенов сессий
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Инициализация сервисов
	authService := service.NewAuthService(personRepo, tokens)
	personService := service.NewPersonService(personRepo, deptRepo, channelRepo, cfg.Auth.BcryptCost)
	hoursService := service.NewHoursService(hoursRepo, channelRepo, deptRepo)
	reportService := service.NewReportService(hoursRepo)
	deptService := service.NewDepartmentService(deptRepo, personRepo)
	channelService := service.NewChannelService(channelRepo)

	// Инициализация хендлеров
	authHandler := handler.NewAuthHandler(authService, logger)
	hoursHandler := handler.NewHoursHandler(hoursService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)
	employeeHandler := handler.NewEmployeeHandler(personService, logger)
	deptHandler := handler.NewDepartmentHandler(deptService, logger)
	channelHandler := handler.NewChannelHandler(channelService, logger)

	// Настройка роутера
	router := handler.NewRouter(
		logger, tokens, personRepo,
		authHandler, hoursHandler, reportHandler,
		employeeHandler, deptHandler, channelHandler,
	)
	httpHandler := router.Setup()

	// Настройка HTTP сервера
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("could not gracefully shutdown the server", slog.Any("error", err))
		}
		close(done)
	}()

	logger.Info("server is starting", slog.String("port", cfg.Server.Port))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
		os.Exit(1)
	}

	<-done
	logger.Info("server stopped")
}

func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	if cfg.Driver == "sqlite" {
		return gorm.Open(sqlite.Open(cfg.Path), gormConfig)
	}

	var db *gorm.DB
	var err error

	for i := 0; i < 30; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, _ := db.DB()
			if sqlDB.Ping() == nil {
				return db, nil
			}
		}
		time.Sleep(time.Second)
	}

	return nil, fmt.Errorf("failed to connect to database after 30 attempts: %w", err)
}

func prepareSchema(cfg config.DatabaseConfig, db *gorm.DB, sqlDB *sql.DB) error {
	if cfg.Driver == "sqlite" {
		if err := db.AutoMigrate(
			&domain.Group{},
			&domain.Department{},
			&domain.Person{},
			&domain.SalesChannel{},
			&domain.LoggedHours{},
		); err != nil {
			return fmt.Errorf("failed to auto-migrate sqlite schema: %w", err)
		}
		return seedReferenceData(db)
	}

	return runMigrations(sqlDB)
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// seedReferenceData заводит группы ролей и каналы продаж для sqlite,
// где goose миграции не выполняются
func seedReferenceData(db *gorm.DB) error {
	for _, name := range []string{domain.GroupDirector, domain.GroupManager} {
		group := domain.Group{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&group).Error; err != nil {
			return err
		}
	}

	for _, name := range []string{"channel_1", "channel_2", "channel_3", "channel_4"} {
		channel := domain.SalesChannel{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&channel).Error; err != nil {
			return err
		}
	}

	return nil
}
