package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	httpadp "defi-credit-backend/internal/adapter/http"
	"defi-credit-backend/internal/adapter/middleware"
	"defi-credit-backend/internal/adapter/repository/mysql"
	"defi-credit-backend/internal/config"
	"defi-credit-backend/internal/infrastructure/cache"
	"defi-credit-backend/internal/infrastructure/db"
	"defi-credit-backend/internal/kyc"
	"defi-credit-backend/internal/scheduler"
	authUC "defi-credit-backend/internal/usecase/auth"
	borrowUC "defi-credit-backend/internal/usecase/borrow"
	creditUC "defi-credit-backend/internal/usecase/credit"
	depositUC "defi-credit-backend/internal/usecase/deposit"
	kycUC "defi-credit-backend/internal/usecase/kyc"
	sweepUC "defi-credit-backend/internal/usecase/sweep"
	"defi-credit-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("validate config")
	}
	logger.Setup(cfg.LogLevel, cfg.Env)

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("open mysql")
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Msg("open redis")
	}

	uow := mysql.NewGormUoW(gdb)
	credit := creditUC.NewUsecase(uow)
	borrow := borrowUC.NewUsecase(uow, credit)
	deposit := depositUC.NewUsecase(uow, credit)
	sweep := sweepUC.NewUsecase(uow, credit)
	auth := authUC.NewUsecase(uow, cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	kycFlow := kycUC.NewUsecase(uow, kyc.NewHTTPExtractor(cfg.OCRBaseURL))

	h := httpadp.NewHandler()
	authH := httpadp.NewAuthHandler(auth)
	poolH := httpadp.NewPoolHandler(uow)
	borrowH := httpadp.NewBorrowHandler(borrow, auth)
	depositH := httpadp.NewDepositHandler(deposit, auth)
	creditH := httpadp.NewCreditHandler(credit, auth)
	sweepH := httpadp.NewSweepHandler(sweep, auth)
	kycH := httpadp.NewKYCHandler(kycFlow, auth)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	// public
	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/pools", poolH.List)
	e.POST("/auth/signup", authH.Signup)
	e.POST("/auth/signin", authH.Signin)

	// authenticated; mutations additionally deduplicated via redis
	sessioned := e.Group("", middleware.Auth(cfg.JWTSecret))
	idemp := middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	sessioned.GET("/loans", borrowH.History)
	sessioned.POST("/borrow", borrowH.Borrow, idemp)
	sessioned.POST("/loans/:loan_id/repay", borrowH.Repay, idemp)
	sessioned.POST("/loans/sweep", sweepH.Sweep)

	sessioned.GET("/deposits", depositH.List)
	sessioned.GET("/deposits/interest/month", depositH.MonthlyInterest)
	sessioned.POST("/deposits", depositH.Create, idemp)
	sessioned.POST("/deposits/:deposit_id/withdraw", depositH.Withdraw, idemp)

	sessioned.GET("/credit/score", creditH.Score)
	sessioned.POST("/credit/claims/deposit-streak", creditH.ClaimDepositStreak, idemp)
	sessioned.POST("/credit/checks/loan-frequency", creditH.CheckLoanFrequency)
	sessioned.POST("/credit/recompute", creditH.Recompute)

	sessioned.POST("/kyc/verify", kycH.Verify)

	sched := scheduler.New(context.Background(), sweep)
	if err := sched.Register(cfg.SweepCron); err != nil {
		log.Fatal().Err(err).Msg("register scheduler")
	}
	sched.Start()
	defer sched.Stop()

	addr := ":" + cfg.AppPort
	log.Info().Str("addr", addr).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
