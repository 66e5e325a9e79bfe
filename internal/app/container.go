package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/boat-rental-backend/internal/api"
	"github.com/nekogravitycat/boat-rental-backend/internal/auth"
	"github.com/nekogravitycat/boat-rental-backend/internal/boat"
	"github.com/nekogravitycat/boat-rental-backend/internal/booking"
	"github.com/nekogravitycat/boat-rental-backend/internal/db"
	"github.com/nekogravitycat/boat-rental-backend/internal/media"
	"github.com/nekogravitycat/boat-rental-backend/internal/metrics"
	"github.com/nekogravitycat/boat-rental-backend/internal/pkg/storage"
	"github.com/nekogravitycat/boat-rental-backend/internal/user"
)

const metricsNamespace = "boat_rental"

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	DBPool         *pgxpool.Pool
	JWTSecret      string
	JWTTTL         time.Duration
	BcryptCost     int
	StorageDir     string
	MediaMaxBytes  int64
	MetricsEnabled bool
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router         *gin.Engine
	JWTManager     *auth.JWTManager
	BookingService booking.Service
}

// NewContainer initializes all modules and returns the container.
// All repositories share cfg.DBPool.
func NewContainer(cfg Config) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	txManager := db.NewTxManager(cfg.DBPool)

	store, err := storage.NewLocalStorage(cfg.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init media storage: %w", err)
	}

	var m *metrics.Metrics
	var observer booking.Observer
	if cfg.MetricsEnabled {
		m = metrics.New(metricsNamespace)
		observer = m.BookingObserver()
	}

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Boat & Media Modules
	boatRepo := boat.NewPgxRepository(cfg.DBPool)
	mediaRepo := media.NewRepository(cfg.DBPool)
	mediaService := media.NewService(mediaRepo, store, boatRepo, cfg.MediaMaxBytes)
	boatService := boat.NewService(boatRepo, mediaService)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, txManager, boatService, userService, observer)

	// API Router Config
	routerParams := api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		MediaMaxBytes:  cfg.MediaMaxBytes,
		UserService:    userService,
		BoatService:    boatService,
		MediaService:   mediaService,
		BookingService: bookingService,
		JWTManager:     jwtManager,
		Metrics:        m,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:         router,
		JWTManager:     jwtManager,
		BookingService: bookingService,
	}, nil
}
