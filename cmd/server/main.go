package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/agrisense/agrisense-server/pkg/auth"
	"github.com/agrisense/agrisense-server/pkg/bridge"
	"github.com/agrisense/agrisense-server/pkg/common"
	"github.com/agrisense/agrisense-server/pkg/db"
	"github.com/agrisense/agrisense-server/pkg/farm"
	agriHttp "github.com/agrisense/agrisense-server/pkg/http"
)

func main() {
	var err error

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	var dbInstance *db.DB
	agriDbType := os.Getenv(common.EnvKeyAgriDBType)
	switch agriDbType {
	case "file":
		dbInstance = db.GetInstance(db.UseSqliteDialector())
	case "memory":
		dbInstance = db.GetInstance(db.UseMemorySqliteDialector())
	default:
		log.Fatal("Unknown AGRI_DB_TYPE: " + agriDbType)
	}

	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyAgriHttpHostPort))

	bridgeURL := strings.TrimSpace(os.Getenv(common.EnvKeyAgriBridgeURL))
	if bridgeURL == "" {
		log.Fatal("AGRI_BRIDGE_URL not set in .env, should point at the relay control service")
	}

	bridgeTimeout := bridge.DefaultTimeout
	if raw := os.Getenv(common.EnvKeyAgriBridgeTimeoutSec); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			log.Fatal("Invalid AGRI_BRIDGE_TIMEOUT_SEC, should be an int value in seconds")
		}
		bridgeTimeout = time.Duration(seconds) * time.Second
	}

	sessionTTL := auth.DefaultSessionTTL
	if raw := os.Getenv(common.EnvKeyAgriSessionTTLHours); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil {
			log.Fatal("Invalid AGRI_SESSION_TTL_HOURS, should be an int value in hours")
		}
		sessionTTL = time.Duration(hours) * time.Hour
	}

	jwtManager, err := auth.NewJWTManager(os.Getenv(common.EnvKeyAgriJwtSecret), sessionTTL)
	if err != nil {
		log.Fatal("Invalid AGRI_JWT_SECRET, or not set in .env: ", err)
	}

	var defaultRate float64
	var defaultBurst int64

	if defaultRate, err = strconv.ParseFloat(os.Getenv(common.EnvKeyAgriDefaultRate), 64); err != nil {
		log.Fatal("Invalid AGRI_DEFAULT_RATE, or not set in .env, should be a float64 value")
	}

	if defaultBurst, err = strconv.ParseInt(os.Getenv(common.EnvKeyAgriDefaultBurst), 10, 64); err != nil {
		log.Fatal("Invalid AGRI_DEFAULT_BURST, or not set in .env, should be an int value")
	}

	logger := common.GetLogger()

	farmCore := farm.Farm{
		Db:       *dbInstance,
		Notifier: bridge.NewClient(bridgeURL, bridgeTimeout),
	}
	farmCore.WithServices(farm.ServiceOpts{
		Reading: farmCore.GetIReading(),
		Alert:   farmCore.GetIAlert(),
		Pump:    farmCore.GetIPump(),
		Device:  farmCore.GetIDevice(),
		User:    farmCore.GetIUser(),
	})

	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":1080"
	}

	logger.Info("Starting HTTP server on port " + httpHostPort)
	rs := &agriHttp.RestfulServer{
		Server: gin.Default(),
		Farm:   &farmCore,
		Auth: &auth.Authenticator{
			JWT:  jwtManager,
			Keys: farmCore.GetIUser(),
		},
		RateLimiterStore: farm.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst)),
	}
	rs.Setup()

	logger.Info("http server created with:",
		zap.String("bridge_url", bridgeURL),
		zap.String("default_limiter",
			fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", defaultRate, defaultBurst)))

	logger.Info("Starting HTTP server on: " + httpHostPort)
	if err := rs.Server.Run(httpHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}
