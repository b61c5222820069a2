package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"fullgorilla/cmd/fx/controllers_fx"
	"fullgorilla/cmd/fx/core_fx"
	"fullgorilla/internal/api/controllers"
	"fullgorilla/internal/infra"
	"fullgorilla/internal/models/db_models"
	"fullgorilla/pkg/middleware"
	"fullgorilla/pkg/utils"
)

func main() {
	app := fx.New(
		core_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg infra.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("starting HTTP server", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

type Controllers struct {
	fx.In

	Account       *controllers.AccountController
	Questionnaire *controllers.QuestionnaireController
	Cookbook      *controllers.CookbookController
	Dashboard     *controllers.DashboardController
	Subscription  *controllers.SubscriptionController
	Email         *controllers.EmailController
	Health        *controllers.HealthController
}

func ProvideRouter(
	cfg infra.Config,
	log *zap.Logger,
	tokens *utils.TokenIssuer,
	registry *prometheus.Registry,
	httpMetrics *middleware.HTTPMetrics,
	ctrl Controllers) *gin.Engine {

	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(log.Named("http")))
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(httpMetrics.Handler())

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))

	RegisterRoutes(r, middleware.JWTAuthMiddleware(tokens), ctrl)

	return r
}

func RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc, ctrl Controllers) {
	r.GET("/healthz", ctrl.Health.Healthz)

	accountGroup := r.Group("/accounts")
	accountGroup.POST("/register", ctrl.Account.Register)
	accountGroup.POST("/login", ctrl.Account.Login)
	accountGroup.POST("/forgot-password", ctrl.Account.ForgotPassword)
	accountGroup.POST("/reset-password", ctrl.Account.ResetPassword)
	accountGroup.GET("/me", auth, ctrl.Account.Me)

	questionnaireGroup := r.Group("/questionnaire")
	questionnaireGroup.GET("/questions", ctrl.Questionnaire.Questions)
	questionnaireGroup.POST("/submit", auth, ctrl.Questionnaire.Submit)

	sessionGroup := questionnaireGroup.Group("/sessions", auth)
	sessionGroup.POST("", ctrl.Questionnaire.StartSession)
	sessionGroup.GET("/:id", ctrl.Questionnaire.GetSession)
	sessionGroup.PUT("/:id/answer", ctrl.Questionnaire.SetAnswer)
	sessionGroup.POST("/:id/next", ctrl.Questionnaire.Next)
	sessionGroup.POST("/:id/back", ctrl.Questionnaire.Back)

	cookbookGroup := r.Group("/cookbooks")
	cookbookGroup.POST("/recommend", ctrl.Cookbook.Recommend)
	cookbookGroup.GET("", auth, ctrl.Cookbook.List)
	cookbookGroup.GET("/:slug", auth, ctrl.Cookbook.Detail)

	dashboardGroup := r.Group("/dashboard", auth)
	dashboardGroup.GET("/meal-plan", ctrl.Dashboard.MealPlan)
	dashboardGroup.POST("/meals/:id/rating", ctrl.Dashboard.RateMeal)
	dashboardGroup.GET("/ratings", ctrl.Dashboard.Ratings)

	subscriptionGroup := r.Group("/subscription", auth)
	subscriptionGroup.GET("", ctrl.Subscription.Get)
	subscriptionGroup.POST("/upgrade", ctrl.Subscription.Upgrade)
	subscriptionGroup.POST("/downgrade", ctrl.Subscription.Downgrade)

	adminGroup := r.Group("/", auth, middleware.RoleMiddleware(db_models.RoleAdmin))
	adminGroup.GET("/admin/dashboard/stats", ctrl.Dashboard.Stats)
	adminGroup.POST("/emails/send", ctrl.Email.Send)
}
