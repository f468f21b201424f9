package main

import (
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/portfolio-catalog-backend/api"
	"github.com/rpupo63/portfolio-catalog-backend/database"
	"github.com/rpupo63/portfolio-catalog-backend/models"
	"github.com/rpupo63/portfolio-catalog-backend/services"
)

func main() {
	log.Info().Msg("Initializing portfolio catalog backend...")

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	connStr := getEnv("DATABASE_URL", "")
	if connStr == "" {
		connStr = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", ""),
			getEnv("DB_NAME", "portfolio_catalog"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_SSLMODE", "disable"),
		)
	}

	gormLogger := logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		log.Error().Err(err).Msg("Error connecting to database")
		os.Exit(1)
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		log.Error().Err(err).Msg("Error enabling uuid-ossp extension")
		os.Exit(1)
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		log.Error().Err(err).Msg("Error testing database connection")
		os.Exit(1)
	}

	if err := db.AutoMigrate(&models.Project{}); err != nil {
		log.Error().Err(err).Msg("Error migrating schema")
		os.Exit(1)
	}

	currentDB := database.New(db)
	projectRepo := currentDB.ProjectRepo()

	images, err := services.NewImageStore(getEnv("UPLOADS_DIR", "public/uploads"))
	if err != nil {
		log.Error().Err(err).Msg("Error initializing image store")
		os.Exit(1)
	}

	// Reclaim upload files stranded by a crash between record deletion and
	// file removal.
	if inUse, err := projectRepo.ImagePaths(); err != nil {
		log.Warn().Err(err).Msg("Skipping orphaned image sweep")
	} else if _, err := images.SweepOrphans(inUse); err != nil {
		log.Warn().Err(err).Msg("Orphaned image sweep failed")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(projectRepo, images)
	if err != nil {
		log.Error().Err(err).Msg("Error initializing server")
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}

// getEnv returns the value of the environment variable key or a fallback value.
func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
