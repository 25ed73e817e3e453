package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"macshift/internal/application/polling"
	"macshift/internal/infrastructure/container"
	"macshift/internal/infrastructure/metrics"
	"macshift/internal/infrastructure/watcher"
)

// newWatchCommand는 상주 감시 모드를 시작하는 커맨드를 만듭니다
func newWatchCommand(cfgPath *string, logger *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run in the foreground, applying rules while applications come and go",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(*cfgPath, logger)
			if err != nil {
				return err
			}

			app := newWatchApplication(c, logger)
			return app.Run(cmd.Context())
		},
	}
}

// watchApplication은 감시 모드의 메인 루프를 구성합니다
type watchApplication struct {
	container    *container.Container
	logger       *logrus.Logger
	healthServer *http.Server
}

func newWatchApplication(c *container.Container, logger *logrus.Logger) *watchApplication {
	return &watchApplication{
		container: c,
		logger:    logger,
	}
}

// Run은 시그널을 받을 때까지 감시 루프를 실행합니다
func (a *watchApplication) Run(parent context.Context) error {
	cfg := a.container.GetConfig()

	hostname, _ := os.Hostname()
	metrics.SetAgentInfo(getVersion(), runtime.GOOS, hostname)
	a.container.GetHealthService().SetPlatform(runtime.GOOS)

	// 헬스체크 서버 시작
	if err := a.startHealthServer(cfg.Health.Port); err != nil {
		return err
	}

	// 컨텍스트 및 시그널 핸들링 설정
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		a.logger.Info("Received shutdown signal")
		cancel()
	}()

	// 폴링 전략 설정
	var strategy polling.Strategy
	if cfg.Watch.Backoff.Enabled {
		strategy = polling.NewIdleBackoffStrategy(
			cfg.Watch.Interval,
			cfg.Watch.Backoff.MaxInterval,
			cfg.Watch.Backoff.Multiplier,
			a.logger,
		)
		a.logger.WithFields(logrus.Fields{
			"base_interval": cfg.Watch.Interval,
			"max_interval":  cfg.Watch.Backoff.MaxInterval,
			"multiplier":    cfg.Watch.Backoff.Multiplier,
		}).Info("Idle backoff polling enabled")
	} else {
		strategy = polling.NewFixedIntervalStrategy(cfg.Watch.Interval)
		a.logger.WithField("interval", cfg.Watch.Interval).Info("Fixed interval polling enabled")
	}

	pollingController := polling.NewPollingController(strategy, a.logger)

	// 규칙 파일 변경 감지: 변경 즉시 한 사이클을 추가 실행하고 백오프를 리셋
	rulesWatcher := watcher.NewRulesWatcher(cfg.Store.RulesPath(), 200*time.Millisecond, a.logger)
	go func() {
		err := rulesWatcher.Watch(ctx, func() {
			a.logger.Info("Rules file changed; applying immediately")
			strategy.Reset()
			a.runCycle(ctx)
		})
		if err != nil && ctx.Err() == nil {
			a.logger.WithError(err).Warn("Rules watcher stopped")
		}
	}()

	a.logger.Info("macshift watch mode started")

	// 시작 직후 한 사이클 실행
	a.runCycle(ctx)

	err := pollingController.Start(ctx, func(ctx context.Context) (bool, error) {
		return a.runCycle(ctx)
	})

	a.shutdownHealthServer()

	if err == context.Canceled {
		return nil
	}
	return err
}

// runCycle은 규칙 적용을 한 사이클 수행하고 실제 적용 여부를 반환합니다
func (a *watchApplication) runCycle(ctx context.Context) (bool, error) {
	startTime := time.Now()
	healthService := a.container.GetHealthService()

	output, err := a.container.GetApplyRulesUseCase().Execute(ctx)
	metrics.RecordWatchCycle(time.Since(startTime).Seconds())

	if err != nil {
		a.logger.WithError(err).Error("Failed to apply rules")
		healthService.UpdateStoreHealth(false, err)
		metrics.RecordError("apply_rules")
		return false, err
	}
	healthService.UpdateStoreHealth(true, nil)

	for i := 0; i < output.AppliedCount; i++ {
		healthService.IncrementAppliedChanges()
	}
	for i := 0; i < output.FailedCount; i++ {
		healthService.IncrementFailedChanges()
	}

	// 실제로 처리된 것이 있을 때만 로그 출력
	if output.AppliedCount > 0 || output.FailedCount > 0 {
		a.logger.WithFields(logrus.Fields{
			"matched": output.MatchedCount,
			"applied": output.AppliedCount,
			"failed":  output.FailedCount,
			"skipped": output.SkippedCount,
			"elapsed": time.Since(startTime).String(),
		}).Info("Rule application cycle completed")
	}

	return output.AppliedCount > 0, nil
}

// startHealthServer는 헬스체크 서버를 시작합니다
func (a *watchApplication) startHealthServer(port string) error {
	healthService := a.container.GetHealthService()

	mux := http.NewServeMux()
	mux.Handle("/", healthService)
	mux.Handle("/metrics", promhttp.Handler())

	a.healthServer = &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		a.logger.WithField("port", port).Info("Health check server started (with /metrics)")
		if err := a.healthServer.ListenAndServe(); err != http.ErrServerClosed {
			a.logger.WithError(err).Error("Health check server failed")
		}
	}()

	return nil
}

func (a *watchApplication) shutdownHealthServer() {
	if a.healthServer == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.healthServer.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("Failed to shut down health check server")
	}
}
