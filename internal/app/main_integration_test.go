//go:build integration

package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/nekogravitycat/boat-rental-backend/internal/app"
	"github.com/nekogravitycat/boat-rental-backend/internal/auth"
	"github.com/nekogravitycat/boat-rental-backend/internal/db"
	"github.com/nekogravitycat/boat-rental-backend/internal/user"
)

var (
	testRouter *gin.Engine
	testPool   *pgxpool.Pool
	jwtManager *auth.JWTManager
)

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	// Optional overrides such as TEST_POSTGRES_IMAGE
	if err := godotenv.Load("../../.env"); err != nil {
		log.Printf("No .env file found or failed to load: %v", err)
	}

	image := os.Getenv("TEST_POSTGRES_IMAGE")
	if image == "" {
		image = "postgres:16-alpine"
	}

	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx,
		image,
		postgres.WithDatabase("boats"),
		postgres.WithUsername("boats"),
		postgres.WithPassword("boats"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		log.Printf("Failed to start PostgreSQL container: %v", err)
		return 1
	}
	defer func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			log.Printf("Failed to terminate container: %v", err)
		}
	}()

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Printf("Failed to get connection string: %v", err)
		return 1
	}

	testPool, err = db.NewPool(ctx, dsn, 10)
	if err != nil {
		log.Printf("Unable to connect to database: %v", err)
		return 1
	}
	defer testPool.Close()

	if _, err := db.Migrate(ctx, testPool); err != nil {
		log.Printf("Failed to migrate: %v", err)
		return 1
	}

	storageDir, err := os.MkdirTemp("", "boat-media-*")
	if err != nil {
		log.Printf("Failed to create storage dir: %v", err)
		return 1
	}
	defer os.RemoveAll(storageDir)

	// Initialize App Container using shared logic
	container, err := app.NewContainer(app.Config{
		DBPool:         testPool,
		JWTSecret:      "integration-secret",
		JWTTTL:         30 * time.Minute,
		BcryptCost:     4, // Lower cost for testing purposes
		StorageDir:     storageDir,
		MediaMaxBytes:  1 << 20,
		MetricsEnabled: true,
	})
	if err != nil {
		log.Printf("Failed to build container: %v", err)
		return 1
	}

	testRouter = container.Router
	jwtManager = container.JWTManager

	gin.SetMode(gin.TestMode)

	return m.Run()
}

func clearTables() {
	ctx := context.Background()
	queries := []string{
		"TRUNCATE TABLE public.bookings CASCADE",
		"TRUNCATE TABLE public.boat_media CASCADE",
		"TRUNCATE TABLE public.boats CASCADE",
		"TRUNCATE TABLE public.users CASCADE",
	}
	for _, q := range queries {
		if _, err := testPool.Exec(ctx, q); err != nil {
			log.Printf("Failed to clean table: %v", err)
		}
	}
}

func executeRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	return w
}

func createTestUser(t *testing.T, email, password string, isAdmin bool) *user.User {
	hasher := auth.NewBcryptPasswordHasherWithCost(4)
	hash, err := hasher.Hash(password)
	require.NoError(t, err, "Failed to hash password")

	u := &user.User{
		Email:         email,
		PasswordHash:  hash,
		DisplayName:   &email,
		IsActive:      true,
		IsSystemAdmin: isAdmin,
	}

	repo := user.NewPgxRepository(testPool)
	require.NoError(t, repo.Create(context.Background(), u), "Failed to create test user in DB")

	savedUser, err := repo.GetByEmail(context.Background(), email)
	require.NoError(t, err, "Failed to fetch created user")

	return savedUser
}

func generateToken(t *testing.T, userID string) string {
	token, err := jwtManager.GenerateAccessToken(userID)
	require.NoError(t, err)
	return token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
