package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/memoriqr/memoriqr/internal/config"
	"github.com/memoriqr/memoriqr/internal/filestore"
	"github.com/memoriqr/memoriqr/internal/handler"
	"github.com/memoriqr/memoriqr/internal/job"
	"github.com/memoriqr/memoriqr/internal/middleware"
	"github.com/memoriqr/memoriqr/internal/repo"
	"github.com/memoriqr/memoriqr/internal/schedule"
	"github.com/memoriqr/memoriqr/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "memoriqr",
		Short: "memoriqr backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run memoriqr server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			db, err := repo.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := repo.ApplyMigrations(db); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, db)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, db *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.String("file_store", cfg.FileStore.Type),
	)

	activationRepo := repo.NewActivationCodeRepo(db)
	orderRepo := repo.NewOrderRepo(db)
	customerRepo := repo.NewCustomerRepo(db)
	memorialRepo := repo.NewMemorialRepo(db)
	verificationRepo := repo.NewEditVerificationRepo(db)
	partnerRepo := repo.NewPartnerRepo(db)
	loginCodeRepo := repo.NewPartnerLoginCodeRepo(db)
	sessionRepo := repo.NewPartnerSessionRepo(db)
	referralRepo := repo.NewReferralCodeRepo(db)
	commissionRepo := repo.NewCommissionRepo(db)
	activityRepo := repo.NewActivityLogRepo(db)

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}
	notifier := service.NewNotifier(cfg.Webhook)

	activationService := service.NewActivationService(activationRepo, orderRepo, memorialRepo, cfg.OrderPrefix)
	editSessionService := service.NewEditSessionService(memorialRepo, customerRepo, verificationRepo, notifier)
	lookupService := service.NewLookupService(memorialRepo)
	memorialService := service.NewMemorialService(memorialRepo, activityRepo, editSessionService, store, lookupService)
	partnerAuthService := service.NewPartnerAuthService(partnerRepo, loginCodeRepo, sessionRepo, notifier)
	referralService := service.NewReferralService(referralRepo, commissionRepo, partnerRepo)

	deps := handler.RouterDeps{
		Activation:  handler.NewActivationHandler(activationService),
		Memorials:   handler.NewMemorialHandler(memorialService, editSessionService, lookupService, cfg.AdminPassword),
		Admin:       handler.NewAdminHandler(activationService, referralService, partnerAuthService, cfg.AdminPassword, cfg.IsProduction()),
		Partners:    handler.NewPartnerHandler(partnerAuthService, referralService, cfg.IsProduction()),
		Referrals:   handler.NewReferralHandler(referralService),
		PartnerAuth: partnerAuthService,
		AdminSecret: cfg.AdminPassword,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewCleanupJob(verificationRepo, sessionRepo, loginCodeRepo), "0 * * * *"); err != nil {
		return err
	}
	if err := scheduler.AddJob(job.NewExpiryReminderJob(memorialRepo, customerRepo, notifier), "0 9 * * *"); err != nil {
		return err
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
