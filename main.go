package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/c14220110/hospital-backend/config"
	"github.com/c14220110/hospital-backend/internal/common/middlewares"
	"github.com/c14220110/hospital-backend/internal/common/response"
	"github.com/c14220110/hospital-backend/internal/routes"
	"github.com/c14220110/hospital-backend/pkg/events"
	"github.com/c14220110/hospital-backend/pkg/logger"
	"github.com/c14220110/hospital-backend/pkg/storage/mariadb"
	"github.com/c14220110/hospital-backend/pkg/utils"
	"github.com/c14220110/hospital-backend/ws"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hospital-backend",
		Short: "Hospital administration API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg := config.LoadConfig()
	log := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return nil, log, err
	}
	return cfg, log, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			db, err := mariadb.Connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := mariadb.NewMigrator(db).Up(ctx)
			if err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
			log.Info().Int("applied", n).Msg("migrations applied")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			db, err := mariadb.Connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			statuses, err := mariadb.NewMigrator(db).Status(ctx)
			if err != nil {
				return fmt.Errorf("migration status: %w", err)
			}
			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status, appliedAt := "pending", ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	})

	return cmd
}

// tokenCmd mencetak JWT untuk pengujian manual saat JWT_SECRET aktif.
func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			role, _ := cmd.Flags().GetString("role")
			id, _ := cmd.Flags().GetInt64("id")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			cfg := config.LoadConfig()
			if !cfg.AuthEnabled() {
				return errors.New("JWT_SECRET is not set")
			}
			token, err := utils.GenerateJWTToken(cfg.JWTSecret, id, role, user, time.Now().Add(ttl))
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().String("user", "admin", "Username claim")
	cmd.Flags().String("role", "admin", "Role claim")
	cmd.Flags().Int64("id", 1, "User id claim")
	cmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

func runServer() error {
	cfg, log, err := loadConfig()
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := mariadb.Connect(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to database")
		return err
	}
	defer db.Close()
	log.Info().Str("db", cfg.DBName).Msg("connected to database")

	// WebSocket hub hidup selama proses, dihentikan lewat ctx
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := ws.NewHub(log)
	go hub.Run(hubCtx)

	publishers := []events.Publisher{hub}
	var kafkaPub *events.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub, err = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return err
		}
		publishers = append(publishers, kafkaPub)
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", kafkaPub.Topic()).Msg("kafka publisher enabled")
	}
	bus := events.NewBus(log, publishers...)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.IsDev()
	e.HTTPErrorHandler = response.HTTPErrorHandler(log)

	e.Use(middlewares.RequestID())
	e.Use(middlewares.Logger(log))
	e.Use(middlewares.Recovery(log))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	routes.Init(e, routes.Deps{DB: db, Config: cfg, Events: bus, Hub: hub})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("Server berjalan")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Error().Err(err).Msg("server failed")
		return err
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	bus.Wait()
	stopHub()
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			log.Warn().Err(err).Msg("kafka writer close failed")
		}
	}
	log.Info().Msg("server stopped")
	return nil
}
