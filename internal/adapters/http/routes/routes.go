package routes

import (
	"familybank/internal/adapters/http/handlers"
	"familybank/internal/adapters/http/middleware"
	"familybank/internal/adapters/persistence/repositories"
	"familybank/internal/config"
	"familybank/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, log *logrus.Logger) {
	// Initialize repositories
	memberRepo := repositories.NewMemberRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	contributionRepo := repositories.NewContributionRepository(db)
	withdrawalRepo := repositories.NewWithdrawalRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	penaltyRepo := repositories.NewLoanPenaltyRepository(db)

	// Initialize services
	authService := services.NewAuthService(memberRepo, refreshTokenRepo, cfg, log)
	memberService := services.NewMemberService(memberRepo, contributionRepo, withdrawalRepo, loanRepo, log)
	loanService := services.NewLoanService(loanRepo, penaltyRepo, log)
	adminService := services.NewAdminService(memberRepo, contributionRepo, withdrawalRepo, loanRepo, refreshTokenRepo, log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	memberHandler := handlers.NewMemberHandler(memberService)
	loanHandler := handlers.NewLoanHandler(loanService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public + protected)
	authRoutes := apiV1.Group("/auth")
	authRoutes.Use(middleware.NoCacheHeaders())
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Profile routes (authenticated)
	profileRoutes := apiV1.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	profileRoutes.Put("/password", middleware.StrictRateLimiter(), authHandler.ChangePassword)

	// Member routes (authenticated)
	memberRoutes := apiV1.Group("/member")
	memberRoutes.Use(middleware.AuthMiddleware(cfg))
	memberRoutes.Use(middleware.NoCacheHeaders())
	setupMemberRoutes(memberRoutes, memberHandler)

	// Admin routes (admin only)
	adminRoutes := apiV1.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.AdminOnly())
	setupAdminRoutes(adminRoutes, adminHandler, loanHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes, stricter rate limit against brute force
	router.Post("/signup", middleware.AuthRateLimiter(), handler.Signup)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupMemberRoutes configures the member-facing ledger routes
func setupMemberRoutes(router fiber.Router, handler *handlers.MemberHandler) {
	router.Get("/data", handler.GetData)
	router.Post("/withdrawals", handler.Withdraw)
	router.Post("/loans", handler.RequestLoan)
}

// setupAdminRoutes configures the admin routes
func setupAdminRoutes(router fiber.Router, adminHandler *handlers.AdminHandler, loanHandler *handlers.LoanHandler) {
	router.Get("/overview", adminHandler.Overview)

	// Members
	router.Get("/members", adminHandler.ListMembers)
	router.Get("/members/:id", adminHandler.GetMember)
	router.Put("/members/:id", adminHandler.UpdateMember)
	router.Delete("/members/:id", adminHandler.DeleteMember)

	// Contributions
	router.Post("/contributions", adminHandler.CreateContribution)
	router.Put("/contributions/:id", adminHandler.UpdateContribution)
	router.Delete("/contributions/:id", adminHandler.DeleteContribution)

	// Withdrawals
	router.Post("/withdrawals", adminHandler.CreateWithdrawal)
	router.Put("/withdrawals/:id", adminHandler.UpdateWithdrawal)
	router.Delete("/withdrawals/:id", adminHandler.DeleteWithdrawal)

	// Loans
	router.Get("/loans", loanHandler.ListLoans)
	router.Get("/loans/:id", loanHandler.GetLoan)
	router.Put("/loans/:id/disburse", loanHandler.Disburse)
	router.Post("/loans/:id/repayments", loanHandler.AddRepayment)
	router.Put("/loans/:id/repaid", loanHandler.MarkRepaid)
	router.Put("/loans/:id/reject", loanHandler.Reject)
	router.Post("/loans/:id/penalty", loanHandler.ApplyPenalty)
}
