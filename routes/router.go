package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/teamerhq/teamer/config"
	_ "github.com/teamerhq/teamer/docs"
	"github.com/teamerhq/teamer/internal/auth"
	"github.com/teamerhq/teamer/internal/field"
	"github.com/teamerhq/teamer/internal/game"
	"github.com/teamerhq/teamer/internal/metrics"
	"github.com/teamerhq/teamer/internal/middleware"
	"github.com/teamerhq/teamer/internal/team"
	"github.com/teamerhq/teamer/internal/user"
)

// Options carries the collaborators that tests replace.
type Options struct {
	Clock    clockwork.Clock
	Location *time.Location // zone of the server's calendar "today"
	Metrics  metrics.Metrics
	Gatherer prometheus.Gatherer // backs /metrics; nil means the default registry
}

// SetupRoutes builds every repository, service and controller once and
// mounts them on a new engine.
func SetupRoutes(db *gorm.DB, cfg *config.Config, opts Options) *gin.Engine {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Metrics == nil {
		reg := prometheus.NewRegistry()
		opts.Metrics = metrics.NewService(reg)
		opts.Gatherer = reg
	}

	userRepo := user.NewUserRepository(db)
	fieldRepo := field.NewFieldRepository(db)
	teamRepo := team.NewTeamRepository(db)
	gameRepo := game.NewGameRepository(db, fieldRepo)

	fieldSvc := field.NewService(fieldRepo, userRepo, gameRepo, opts.Metrics)
	gameSvc := game.NewService(game.ServiceDeps{
		Games:   gameRepo,
		Fields:  fieldRepo,
		Teams:   teamRepo,
		Users:   userRepo,
		Clock:   opts.Clock,
		Loc:     opts.Location,
		Metrics: opts.Metrics,
	})
	authSvc := auth.NewService(userRepo, cfg.JWT.AccessTokenSecret, cfg.AccessTokenTTL())

	authMiddleware := middleware.AuthMiddleware(cfg.JWT.AccessTokenSecret, userRepo)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics(opts.Metrics))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.App.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", healthHandler(db))
	r.GET("/metrics", gin.WrapH(metrics.NewMetricsHandler(gatherers(opts.Gatherer)...)))

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := r.Group("/api")
	auth.RegisterAuthRoutes(api, auth.NewAuthController(authSvc), authMiddleware)
	user.UserRoutes(api, user.NewUserController(userRepo), authMiddleware)
	field.FieldRoutes(api, field.NewFieldController(fieldSvc, opts.Location), authMiddleware)
	team.TeamRoutes(api, team.NewTeamController(teamRepo, userRepo), authMiddleware)
	game.GameRoutes(api, game.NewGameController(gameSvc), authMiddleware)

	return r
}

func gatherers(g prometheus.Gatherer) []prometheus.Gatherer {
	if g == nil {
		return nil
	}
	return []prometheus.Gatherer{g}
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			log.Error().Err(err).Msg("health check: database unreachable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
