package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "coop-loan-service/internal/adapter/http"
	"coop-loan-service/internal/adapter/middleware"
	"coop-loan-service/internal/adapter/repository/mysql"
	"coop-loan-service/internal/adapter/repository/rediscache"
	"coop-loan-service/internal/config"
	"coop-loan-service/internal/event"
	"coop-loan-service/internal/infrastructure/cache"
	"coop-loan-service/internal/infrastructure/db"
	"coop-loan-service/internal/risk"
	loanUC "coop-loan-service/internal/usecase/loan"
	"coop-loan-service/internal/usecase/workflow"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	loanRepo := mysql.NewLoanRepository(gdb)
	paymentRepo := mysql.NewPaymentRepository(gdb)
	settingsRepo := rediscache.NewSettingsRepository(mysql.NewSettingsRepository(gdb), rdb, time.Minute)
	userRepo := mysql.NewUserRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	bus := event.Fanout{event.NewInProc(), event.NewRedisBus(rdb, cfg.EventChannel)}

	loans := loanUC.NewUsecase(loanRepo, paymentRepo, settingsRepo, uow, bus)
	wf := workflow.NewUsecase(loanRepo, paymentRepo, settingsRepo, uow, bus)
	advisor := risk.NewAdvisor(cfg.OpenAIKey, cfg.OpenAIURL)

	actors := httpadp.NewActorResolver(userRepo)
	h := httpadp.NewHandler()
	lh := httpadp.NewLoanHandler(loans, wf, actors)
	wh := httpadp.NewWorkflowHandler(wf, loans, actors)
	rh := httpadp.NewRiskHandler(advisor, loans)
	uh := httpadp.NewUserHandler(userRepo, actors)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	idemp := middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)
	httpadp.RegisterRoutes(e, h, lh, wh, rh, uh, idemp)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
