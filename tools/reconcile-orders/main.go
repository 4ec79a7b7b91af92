package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/common/logger"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/database"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/repository"
	"github.com/PrathamVadhavana/Smart-Inventory-Management-System-sub000/services/pos-service/services"
)

// reconcile-orders replays orders held in a terminal's Redis cache into the
// remote order store when the remote write failed at checkout time.
func main() {
	_ = godotenv.Load()

	var terminalID, redisURL, driver, mongoURI, mongoDB string
	var limit int
	var dryRun bool
	flag.StringVar(&terminalID, "terminal", os.Getenv("TERMINAL_ID"), "Terminal whose cache to replay")
	flag.StringVar(&redisURL, "redis", os.Getenv("REDIS_URL"), "Redis URL")
	flag.StringVar(&driver, "driver", envOr("ORDER_STORE_DRIVER", "postgres"), "Remote order store: postgres or mongo")
	flag.StringVar(&mongoURI, "mongo", os.Getenv("MONGO_DB_URL"), "MongoDB URI (mongo driver only)")
	flag.StringVar(&mongoDB, "db", envOr("MONGO_DB_NAME", "pos"), "MongoDB database name")
	flag.IntVar(&limit, "limit", 200, "Maximum cached orders to check")
	flag.BoolVar(&dryRun, "dry-run", false, "Report what would be replayed without writing")
	flag.Parse()

	if terminalID == "" || redisURL == "" {
		log.Fatal("TERMINAL_ID and REDIS_URL must be set or provided via flags")
	}

	zl := logger.Initialize(envOr("APP_ENV", "development")).Named("reconcile")
	defer zl.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	rdb, err := database.NewRedisClient(ctx, redisURL)
	if err != nil {
		log.Fatalf("redis connect: %v", err)
	}
	defer rdb.Close()

	var remote repository.OrderStore
	switch driver {
	case "mongo":
		if mongoURI == "" {
			log.Fatal("MONGO_DB_URL must be set for the mongo driver")
		}
		mclient, mdb, err := database.ConnectMongo(ctx, mongoURI, mongoDB)
		if err != nil {
			log.Fatalf("mongo connect: %v", err)
		}
		defer mclient.Disconnect(context.Background())
		remote = repository.NewMongoOrderRepository(mdb)
	case "postgres":
		db, err := database.ConnectPostgres(database.PostgresConfig{
			Host:     envOr("POSTGRES_HOST", "localhost"),
			Port:     envOr("POSTGRES_PORT", "5432"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DB:       os.Getenv("POSTGRES_DB"),
			SSLMode:  envOr("POSTGRES_SSLMODE", "disable"),
			TimeZone: envOr("POSTGRES_TIMEZONE", "Asia/Kolkata"),
		}, zl)
		if err != nil {
			log.Fatalf("postgres connect: %v", err)
		}
		defer database.ClosePostgres(db)
		remote = repository.NewGormOrderRepository(db)
	default:
		log.Fatalf("unknown driver %q", driver)
	}

	// Cache size only bounds writes; reads use limit.
	cache := repository.NewRedisOrderCache(rdb, terminalID, limit)
	report, err := services.NewOrderReconciler(cache, remote, zl).Reconcile(ctx, limit, dryRun)
	if err != nil {
		log.Fatalf("reconcile: %v", err)
	}

	out, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(out))
	if report.Failed > 0 || report.Mismatched > 0 {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
