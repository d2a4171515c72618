package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/api"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/app/service"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/common/security"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/domain/model"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/domain/repository"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/judge"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/judge/executor"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/judge/limiter"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/judge/sanitizer"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/judge/workspace"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/platform/cache"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/platform/config"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/platform/database"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/platform/logging"

	"go.uber.org/zap"
)

func main() {
	config.Load()

	logger, err := logging.Init(config.AppConfig.Env)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	security.InitJWT()

	database.Connect()
	defer database.Close()
	zap.L().Info("database connected")

	cache.ConnectRedis()
	defer cache.CloseRedis()
	zap.L().Info("redis connected")

	cfg := config.AppConfig

	userRepo := repository.NewPgUserRepository(database.DB)
	problemRepo := repository.NewPgProblemRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)
	pointsRepo := repository.NewPgPointsRepository(database.DB)
	txRunner := database.TxRunner{DB: database.DB}

	ws := workspace.NewManager(cfg.DockerBin, cfg.StagingRoot, cfg.SandboxRoot, map[model.Language]string{
		model.LangCPP:    cfg.CPPContainer,
		model.LangJava:   cfg.JavaContainer,
		model.LangPython: cfg.PythonContainer,
	}, nil)

	adapters := []executor.Adapter{
		executor.NewCPPAdapter(cfg.DockerBin),
		executor.NewJavaAdapter(cfg.DockerBin),
		executor.NewPythonAdapter(cfg.DockerBin),
	}
	slots := limiter.New(cache.RDB, cfg.ExecutionSlots, cfg.ExecutionSlotTTL)
	engine := judge.NewEngine(ws, adapters, slots, sanitizer.New(nil), executor.Timeouts{
		Inner:   cfg.InnerTimeout,
		Outer:   cfg.OuterTimeout,
		Compile: cfg.CompileTimeout,
	})

	authService := service.NewAuthService(userRepo)
	problemService := service.NewProblemService(problemRepo, txRunner)
	scoringService := service.NewScoringService(pointsRepo, txRunner)
	submissionService := service.NewSubmissionService(submissionRepo, problemRepo, scoringService, engine)

	router := api.NewRouter(authService, problemService, submissionService)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		zap.L().Info("server starting", zap.String("port", cfg.APIPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("server failed", zap.Error(err))
		}
	}()

	<-stop

	zap.L().Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.L().Fatal("server shutdown failed", zap.Error(err))
	}
	zap.L().Info("server stopped gracefully")
}
