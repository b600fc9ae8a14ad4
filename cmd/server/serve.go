package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"dmchat/internal/blob"
	"dmchat/internal/config"
	"dmchat/internal/httpserver"
	"dmchat/internal/security"
	"dmchat/internal/service"
	"dmchat/internal/store"
	"dmchat/internal/ws"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and WebSocket server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	encryptor, err := security.NewEncryptor([]byte(cfg.EncryptKey), cfg.LegacyEncryptKeys)
	if err != nil {
		return err
	}
	tokenSvc := security.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL())

	uploads, err := blob.NewLocalStore(cfg.UploadDir, "/api/uploads", cfg.MaxUploadBytes)
	if err != nil {
		return err
	}

	hub := ws.NewHub()
	defer hub.Close()

	authSvc := service.NewAuthService(st.users, tokenSvc)
	userSvc := service.NewUserService(st.users)
	messages := store.NewMessageStore(st.messages, encryptor)
	msgSvc := service.NewMessageService(
		messages,
		st.users,
		service.NewProjector(encryptor, userSvc),
		service.NewSearcher(messages, encryptor),
		hub,
		uploads,
		cfg.MaxMessageLength,
	)

	limiter, closeLimiter := newLimiter(cfg)
	defer closeLimiter()

	router := httpserver.NewRouter(cfg, httpserver.Deps{
		Auth:     authSvc,
		Users:    userSvc,
		Messages: msgSvc,
		Uploads:  uploads,
		Hub:      hub,
		Limiter:  limiter,
	})

	srv := &http.Server{
		Addr:        cfg.HTTPAddr(),
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"addr":       cfg.HTTPAddr(),
			"store":      cfg.StoreDriver,
			"max_upload": humanize.Bytes(uint64(cfg.MaxUploadBytes)),
		}).Infof("starting %s", cfg.AppName)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-stop:
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	log.Info("shutting down server")
	hub.Close()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("graceful shutdown failed")
	}
	return nil
}

// newLimiter uses redis when REDIS_ADDR is set so that every instance
// shares one budget, and an in-process limiter otherwise.
func newLimiter(cfg *config.Config) (httpserver.Limiter, func()) {
	if cfg.RedisAddr == "" {
		return httpserver.NewLocalLimiter(cfg.RateLimitPerMinute), func() {}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis unreachable, requests will not be rate limited until it recovers")
	}
	return httpserver.NewRedisLimiter(rdb, cfg.RateLimitPerMinute, time.Minute), func() { rdb.Close() }
}
