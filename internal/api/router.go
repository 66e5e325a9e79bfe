package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/boat-rental-backend/internal/auth"
	"github.com/nekogravitycat/boat-rental-backend/internal/boat"
	boatHttp "github.com/nekogravitycat/boat-rental-backend/internal/boat/http"
	"github.com/nekogravitycat/boat-rental-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/boat-rental-backend/internal/booking/http"
	"github.com/nekogravitycat/boat-rental-backend/internal/media"
	mediaHttp "github.com/nekogravitycat/boat-rental-backend/internal/media/http"
	"github.com/nekogravitycat/boat-rental-backend/internal/metrics"
	"github.com/nekogravitycat/boat-rental-backend/internal/user"
	userHttp "github.com/nekogravitycat/boat-rental-backend/internal/user/http"
)

// Config holds the services and settings the router is assembled from.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	MediaMaxBytes  int64
	UserService    user.Service
	BoatService    boat.Service
	MediaService   media.Service
	BookingService booking.Service
	JWTManager     *auth.JWTManager
	Metrics        *metrics.Metrics // nil disables /metrics
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000", // Frontend dev server
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// Multipart bodies above this are spilled to temp files by net/http.
	if cfg.MediaMaxBytes > 0 {
		r.MaxMultipartMemory = cfg.MediaMaxBytes
	}

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// userMiddleware: Loads the caller and records whether they are a System Admin.
	userMiddleware := ResolveUser(cfg.UserService)
	// sysAdminMiddleware: Further checks if the authenticated user has System Admin privileges.
	sysAdminMiddleware := RequireSystemAdmin(cfg.UserService)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	boatHandler := boatHttp.NewHandler(cfg.BoatService)
	mediaHandler := mediaHttp.NewHandler(cfg.MediaService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		boatHttp.RegisterRoutes(v1, boatHandler, authMiddleware, sysAdminMiddleware)
		mediaHttp.RegisterRoutes(v1, mediaHandler, authMiddleware, sysAdminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, userMiddleware, sysAdminMiddleware)
	}

	return r
}
