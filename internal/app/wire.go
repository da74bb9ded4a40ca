// Package app assembles the HTTP service: repositories, engines, services,
// handlers, and the chi router.
package app

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phantomapp/rewards/internal/achievement"
	"github.com/phantomapp/rewards/internal/auth"
	"github.com/phantomapp/rewards/internal/domain"
	"github.com/phantomapp/rewards/internal/geo"
	"github.com/phantomapp/rewards/internal/guard"
	"github.com/phantomapp/rewards/internal/handler"
	adminhandler "github.com/phantomapp/rewards/internal/handler/admin"
	"github.com/phantomapp/rewards/internal/infra"
	"github.com/phantomapp/rewards/internal/ledger"
	"github.com/phantomapp/rewards/internal/mission"
	"github.com/phantomapp/rewards/internal/prize"
	"github.com/phantomapp/rewards/internal/repository"
	"github.com/phantomapp/rewards/internal/service"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool   *pgxpool.Pool
	JWTMgr *auth.JWTManager
	Config *infra.Config
	Logger *slog.Logger
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	pool := deps.Pool
	jwtMgr := deps.JWTMgr
	cfg := deps.Config
	logger := deps.Logger

	// Repositories
	userRepo := repository.NewUserRepository()
	rewardRepo := repository.NewRewardRepository()
	achievementRepo := repository.NewAchievementRepository()
	coinRepo := repository.NewCoinRewardRepository()
	missionRepo := repository.NewMissionRepository()
	prizeRepo := repository.NewPrizeRepository()
	redemptionRepo := repository.NewRedemptionRepository()
	statsRepo := repository.NewStatsRepository()
	contentRepo := repository.NewContentRepository()
	outboxRepo := repository.NewOutboxRepository()

	// Engines
	engine := ledger.NewEngine(userRepo, rewardRepo, achievementRepo, outboxRepo, logger)
	zones := geo.NewLongitudeResolver()
	evaluator := achievement.NewEvaluator(
		achievement.StandardRules(statsRepo, achievementRepo, zones),
		achievementRepo, outboxRepo, logger,
	)
	missionSvc := mission.NewService(missionRepo, statsRepo, coinRepo, userRepo, outboxRepo, logger)
	prizeSvc := prize.NewService(prizeRepo, redemptionRepo, userRepo, outboxRepo, logger)

	// Services
	actionSvc := service.NewActionService(pool, contentRepo, engine, evaluator, logger)
	dailySvc := service.NewDailyService(pool, userRepo, coinRepo, outboxRepo, logger)
	rewardsSvc := service.NewRewardsService(pool, userRepo, rewardRepo, achievementRepo,
		coinRepo, prizeRepo, redemptionRepo, missionSvc, prizeSvc)
	adminSvc := service.NewAdminService(pool, missionRepo, prizeRepo, logger)

	// Guards on the claim/redeem endpoints
	claimGuards := handler.ClaimGuards(
		guard.NewRateLimiter(cfg.ClaimRateLimit, cfg.ClaimRateWindow),
		guard.NewIdempotencyGuard(),
	)

	// Handlers
	actionsHandler := handler.NewActionsHandler(actionSvc)
	progressionHandler := handler.NewProgressionHandler(rewardsSvc)
	streakHandler := handler.NewStreakHandler(dailySvc)
	missionsHandler := handler.NewMissionsHandler(rewardsSvc)
	prizesHandler := handler.NewPrizesHandler(rewardsSvc)

	// Admin handlers
	missionAdmin := adminhandler.NewMissionAdminHandler(adminSvc)
	prizeAdmin := adminhandler.NewPrizeAdminHandler(adminSvc)
	redemptionAdmin := adminhandler.NewRedemptionAdminHandler(rewardsSvc)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORS(cfg.CORSAllowedOrigins))
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(pool))

	// User-authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.AuthenticateUser(jwtMgr))

		r.Route("/reviews", func(r chi.Router) {
			r.Post("/", actionsHandler.CreateReview)
			r.Delete("/{id}", actionsHandler.Delete(domain.RefReview))
		})
		r.Route("/check-ins", func(r chi.Router) {
			r.Post("/", actionsHandler.CreateCheckIn)
			r.Delete("/{id}", actionsHandler.Delete(domain.RefCheckIn))
		})
		r.Route("/comments", func(r chi.Router) {
			r.Post("/", actionsHandler.CreateComment)
			r.Delete("/{id}", actionsHandler.Delete(domain.RefComment))
		})
		r.Route("/reactions", func(r chi.Router) {
			r.Post("/", actionsHandler.CreateReaction)
			r.Delete("/{id}", actionsHandler.Delete(domain.RefReaction))
		})
		r.Route("/homemade-posts", func(r chi.Router) {
			r.Post("/", actionsHandler.CreateHomemade)
			r.Delete("/{id}", actionsHandler.Delete(domain.RefHomemade))
		})

		r.Post("/progression/enroll", progressionHandler.Enroll)
		r.Get("/progression/me", progressionHandler.GetMe)
		r.Get("/rewards/me", progressionHandler.GetRewards)
		r.Get("/achievements/me", progressionHandler.GetAchievements)
		r.Get("/coins/me", progressionHandler.GetCoins)

		r.With(claimGuards).Post("/streak/claim", streakHandler.Claim)

		r.Route("/missions", func(r chi.Router) {
			r.Get("/", missionsHandler.List)
			r.With(claimGuards).Post("/{id}/claim", missionsHandler.Claim)
		})

		r.Route("/prizes", func(r chi.Router) {
			r.Get("/", prizesHandler.List)
			r.With(claimGuards).Post("/{id}/redeem", prizesHandler.Redeem)
		})
		r.Get("/redemptions/me", prizesHandler.MyRedemptions)
	})

	// Admin-authenticated routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.AuthenticateAdmin(jwtMgr))

		r.Route("/missions", func(r chi.Router) {
			r.Use(auth.RequireRole(auth.WriteRoles()...))
			r.Post("/", missionAdmin.Create)
			r.Post("/{id}/deactivate", missionAdmin.Deactivate)
		})

		r.Route("/prizes", func(r chi.Router) {
			r.Use(auth.RequireRole(auth.WriteRoles()...))
			r.Post("/", prizeAdmin.Create)
			r.Patch("/{id}/stock", prizeAdmin.AdjustStock)
		})

		// Support staff may inspect the queue; reviewing needs a write role.
		r.Route("/redemptions", func(r chi.Router) {
			r.Get("/", redemptionAdmin.ListPending)
			r.With(auth.RequireRole(auth.WriteRoles()...)).Post("/{id}/review", redemptionAdmin.Review)
		})
	})

	return r
}
