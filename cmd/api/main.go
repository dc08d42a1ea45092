package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"vigil.org/internal/account"
	"vigil.org/internal/authz"
	"vigil.org/internal/config"
	"vigil.org/internal/httpapi"
	"vigil.org/internal/obs"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	store, db, err := openStore(cfg)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	codec, err := account.NewCodec([]byte(cfg.JWTSecret))
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}
	accounts, err := account.NewService(store, codec,
		account.WithAccessTTL(cfg.AccessTokenTTL),
		account.WithRefreshTTL(cfg.RefreshTokenTTL),
	)
	if err != nil {
		log.Fatalf("account service: %v", err)
	}
	gate, err := authz.NewGate(codec)
	if err != nil {
		log.Fatalf("authz gate: %v", err)
	}

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, accounts, gate, httpapi.SignupGuard{
		AccessToken: cfg.SignupAccessToken,
		SecretToken: cfg.SignupSecretToken,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting vigil-api %s on %s (store=%s)", version, srv.Addr, cfg.StoreBackend)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}

// openStore selects the account store backend from configuration. The *sql.DB
// is non-nil only for the postgres backend and feeds the readiness probe.
func openStore(cfg config.Config) (account.Store, *sql.DB, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
		return account.NewPGStore(db), db, nil
	case config.BackendDynamo:
		client, err := account.NewDynamoClient(context.Background(), cfg.AWSRegion)
		if err != nil {
			return nil, nil, err
		}
		return account.NewDynamoStore(client, cfg.DynamoTable), nil, nil
	default:
		return account.NewMemStore(), nil, nil
	}
}
