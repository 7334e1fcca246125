package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-api/internal/config"
	"storefront-api/internal/database"
	"storefront-api/internal/models"
	"storefront-api/pkg/logging"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// fakeAccount is one user known to the fake identity service
type fakeAccount struct {
	ID             string
	Email          string
	EmailConfirmed bool
	Token          string
}

// fakeIdentity serves the three identity endpoints the storefront uses:
// token resolution, admin user lookup, and signup.
type fakeIdentity struct {
	accounts []fakeAccount

	// signupError, when set, is the msg returned with a 400 on signup
	signupError string
}

func (f *fakeIdentity) handler() http.Handler {
	mux := http.NewServeMux()

	encode := func(w http.ResponseWriter, a fakeAccount) {
		body := map[string]interface{}{
			"id":    a.ID,
			"email": a.Email,
		}
		if a.EmailConfirmed {
			body["email_confirmed_at"] = "2025-06-01T12:00:00Z"
		}
		_ = json.NewEncoder(w).Encode(body)
	}

	mux.HandleFunc("/auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		for _, a := range f.accounts {
			if a.Token != "" && a.Token == token {
				encode(w, a)
				return
			}
		}
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "invalid JWT"})
	})

	mux.HandleFunc("/auth/v1/admin/users/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/auth/v1/admin/users/")
		for _, a := range f.accounts {
			if a.ID == id {
				encode(w, a)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "user not found"})
	})

	mux.HandleFunc("/auth/v1/signup", func(w http.ResponseWriter, r *http.Request) {
		if f.signupError != "" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"msg": f.signupError})
			return
		}
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":                   "new-user-1",
			"email":                body["email"],
			"confirmation_sent_at": "2025-06-01T12:00:00Z",
		})
	})

	return mux
}

// setupTestEnv wires config, an in-memory database, and miniredis behind
// the package globals, and returns a router with all routes registered.
// The identity fake is pointed at by the config before routes are set up.
func setupTestEnv(t *testing.T, identity *fakeIdentity) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	logging.InitLogging()

	if err := config.InitConfig(); err != nil {
		t.Fatalf("init config: %v", err)
	}

	idSrv := httptest.NewServer(identity.handler())
	t.Cleanup(idSrv.Close)
	config.AppConfig.IdentityURL = idSrv.URL
	config.AppConfig.IdentityAnonKey = "anon-key"
	config.AppConfig.IdentityServiceKey = "service-key"
	config.AppConfig.BrevoAPIKey = ""

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Purchase{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	prevDB := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prevDB })

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	redisClient := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })
	prevRedis := database.RedisClient
	database.RedisClient = redisClient
	t.Cleanup(func() { database.RedisClient = prevRedis })

	r := gin.New()
	SetupRoutes(r)
	return r
}

// fakePaystack serves verify and initialize for a set of known references
func fakePaystack(t *testing.T, goodRefs map[string]int64) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/transaction/verify/", func(w http.ResponseWriter, r *http.Request) {
		ref := strings.TrimPrefix(r.URL.Path, "/transaction/verify/")
		amount, ok := goodRefs[ref]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  false,
				"message": "Transaction reference not found",
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": true,
			"data": map[string]interface{}{
				"status":    "success",
				"reference": ref,
				"amount":    amount,
				"currency":  "NGN",
				"customer":  map[string]string{"email": "buyer@example.com"},
			},
		})
	})
	mux.HandleFunc("/transaction/initialize", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": true,
			"data": map[string]interface{}{
				"authorization_url": "https://checkout.example.com/session",
				"access_code":       "code123",
				"reference":         body["reference"],
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	config.AppConfig.PaystackBaseURL = srv.URL
	config.AppConfig.PaystackSecretKey = "sk_test_secret"
}

func seedCompletedPurchase(t *testing.T, ref, email string, userID *string) *models.Purchase {
	t.Helper()

	p := &models.Purchase{
		TransactionID: ref,
		Email:         email,
		Name:          "Test Buyer",
		ProductID:     "ielts-manual",
		Status:        models.StatusCompleted,
		Amount:        500000,
		Currency:      "NGN",
		UserID:        userID,
	}
	if err := database.CreatePurchase(p); err != nil {
		t.Fatalf("seed purchase %s: %v", ref, err)
	}
	return p
}
