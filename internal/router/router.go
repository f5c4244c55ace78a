package router

import (
	"time"

	"crave/config"
	"crave/internal/handler"
	"crave/internal/middleware"
	"crave/internal/repository"
	"crave/internal/service"
	"crave/pkg/payment"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, log *logrus.Logger, publisher service.EventPublisher, gateway payment.Provider) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	balanceRepo := repository.NewBalanceRepository()
	feeRepo := repository.NewFeeRepository()
	transactionRepo := repository.NewTransactionRepository()
	topupRepo := repository.NewTopupRepository()
	withdrawalRepo := repository.NewWithdrawalRepository()
	purchaseRepo := repository.NewPurchaseRepository()
	subscriptionRepo := repository.NewSubscriptionRepository()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	notifSvc := service.NewNotificationService(notificationRepo, publisher, log)
	fraud := service.NewFraudChecker(transactionRepo, log,
		cfg.Billing.FraudVelocityLimit, decimal.NewFromInt(cfg.Billing.FraudMagnitudeThreshold))
	balanceSvc := service.NewBalanceService(db, balanceRepo, feeRepo, transactionRepo,
		topupRepo, withdrawalRepo, fraud, notifSvc, log)
	purchaseSvc := service.NewPurchaseService(db, balanceRepo, feeRepo, transactionRepo,
		purchaseRepo, gateway, notifSvc, log)
	subscriptionSvc := service.NewSubscriptionService(db, subscriptionRepo,
		cfg.Billing.SubscriptionCacheTTL, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	walletHandler := handler.NewWalletHandler(balanceSvc)
	purchaseHandler := handler.NewPurchaseHandler(purchaseSvc)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionSvc)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/wallet", walletHandler.GetBalance)
			me.POST("/wallet/topup", walletHandler.TopUp)
			me.POST("/wallet/transfer", walletHandler.Transfer)
			me.POST("/wallet/withdraw", walletHandler.Withdraw)
			me.POST("/wallet/payout", middleware.RequireRole("CREATOR"), walletHandler.Payout)
			me.GET("/wallet/transactions", walletHandler.GetTransactions)
			me.POST("/wallet/transactions", walletHandler.ProcessTransaction)
			me.GET("/notifications", notificationHandler.List)
			me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
			me.GET("/subscription", subscriptionHandler.GetActive)
			me.POST("/subscription/refresh", subscriptionHandler.RefreshStatus)
		}

		api.POST("/posts/:id/purchase", authMw, purchaseHandler.PurchasePost)
		api.POST("/subscriptions", authMw, subscriptionHandler.Create)
		api.POST("/subscriptions/:id/extend", authMw, subscriptionHandler.Extend)
	}

	return r
}
