package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lgardea/tax-intake-service/internal/captcha"
	"github.com/lgardea/tax-intake-service/internal/config"
	"github.com/lgardea/tax-intake-service/internal/handler"
	"github.com/lgardea/tax-intake-service/internal/repository"
	"github.com/lgardea/tax-intake-service/internal/service"
	"github.com/lgardea/tax-intake-service/internal/utils"
	"github.com/lgardea/tax-intake-service/pkg/mailer"
	"github.com/lgardea/tax-intake-service/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	repos := repository.NewRepositories(infra.Postgres())

	jwtManager := utils.NewJWTManager(cfg.Admin.JWTSecret, cfg.Admin.SessionTTL.Duration)

	smtpSender := mailer.NewSMTPSender(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)

	captchaVerifier := captcha.NewHTTPVerifier(cfg.Captcha.VerifyURL, cfg.Captcha.Secret)
	abuseGuard := service.NewAbuseGuard(infra.Redis())
	rateLimiter := service.NewRateLimiter(infra.Redis())
	healthChecker := NewHealthChecker(infra)

	adminService := service.NewAdminService(cfg.Admin.Email, cfg.Admin.PasswordHash, jwtManager)

	invitationService := service.NewInvitationService(
		repos,
		smtpSender,
		infra.Logger(),
		cfg.Security.TokenPepper,
		cfg.Intake.OriginURL,
		cfg.Intake.DefaultTokenExpiry.Duration,
		cfg.Intake.DefaultOneTime,
	)

	intakeService := service.NewIntakeService(
		infra.Postgres(),
		repos,
		infra.Logger(),
		cfg.Security.TokenPepper,
	)

	contactService := service.NewContactService(
		captchaVerifier,
		smtpSender,
		abuseGuard,
		infra.Logger(),
		cfg.SMTP.ContactTo,
		cfg.Security.HoneypotBanTTL.Duration,
	)

	adminHandler := handler.NewAdminHandler(adminService, infra.Logger())
	invitationHandler := handler.NewInvitationHandler(invitationService, infra.Logger())
	intakeHandler := handler.NewIntakeHandler(intakeService, infra.Logger())
	contactHandler := handler.NewContactHandler(contactService, infra.Logger())

	router := gin.Default()
	router.Use(otelgin.Middleware("tax-intake-service"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, adminHandler, invitationHandler, intakeHandler, contactHandler, adminService, rateLimiter, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	adminHandler *handler.AdminHandler,
	invitationHandler *handler.InvitationHandler,
	intakeHandler *handler.IntakeHandler,
	contactHandler *handler.ContactHandler,
	adminService service.AdminService,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	rateLimit := handler.RateLimitMiddleware(
		rateLimiter,
		cfg.Security.RateLimitRequests,
		cfg.Security.RateLimitWindow.Duration,
		handler.IPBasedKey,
	)

	api := router.Group("/api/v1")
	{
		admin := api.Group("/admin")
		{
			admin.POST("/login", rateLimit, adminHandler.Login)
		}

		invitations := api.Group("/invitations", handler.AdminAuthMiddleware(adminService))
		{
			invitations.POST("", invitationHandler.Issue)
			invitations.POST("/:id/revoke", invitationHandler.Revoke)
		}

		intake := api.Group("/intake")
		{
			intake.GET("/session", rateLimit, intakeHandler.Session)
			intake.POST("", rateLimit, intakeHandler.Submit)
		}

		api.POST("/contact", rateLimit, contactHandler.Relay)
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
