package polling

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"macshift/internal/infrastructure/metrics"
)

// Strategy는 감시 루프의 폴링 전략 인터페이스입니다
type Strategy interface {
	// NextInterval은 다음 적용 주기까지의 대기 시간을 반환합니다.
	// didWork는 직전 주기에서 실제로 규칙이 적용되었는지 여부입니다
	NextInterval(didWork bool) time.Duration
	// Reset은 폴링 전략을 초기 상태로 리셋합니다
	Reset()
}

// FixedIntervalStrategy는 항상 같은 간격을 반환하는 전략입니다
type FixedIntervalStrategy struct {
	interval time.Duration
}

// NewFixedIntervalStrategy는 고정 간격 전략을 생성합니다
func NewFixedIntervalStrategy(interval time.Duration) *FixedIntervalStrategy {
	return &FixedIntervalStrategy{interval: interval}
}

func (s *FixedIntervalStrategy) NextInterval(didWork bool) time.Duration {
	return s.interval
}

func (s *FixedIntervalStrategy) Reset() {}

// IdleBackoffStrategy는 규칙 적용이 없는 주기가 이어지면 지수적으로
// 간격을 늘리는 전략입니다. 규칙이 하나라도 적용되면 기본 간격으로
// 복귀합니다
type IdleBackoffStrategy struct {
	baseInterval   time.Duration
	maxInterval    time.Duration
	multiplier     float64
	currentBackoff int
	logger         *logrus.Logger
}

// NewIdleBackoffStrategy는 새로운 유휴 백오프 전략을 생성합니다
func NewIdleBackoffStrategy(
	baseInterval time.Duration,
	maxInterval time.Duration,
	multiplier float64,
	logger *logrus.Logger,
) *IdleBackoffStrategy {
	if multiplier <= 1 {
		multiplier = 2.0
	}

	return &IdleBackoffStrategy{
		baseInterval:   baseInterval,
		maxInterval:    maxInterval,
		multiplier:     multiplier,
		currentBackoff: 0,
		logger:         logger,
	}
}

// NextInterval은 다음 적용 주기까지의 대기 시간을 계산합니다
func (s *IdleBackoffStrategy) NextInterval(didWork bool) time.Duration {
	if didWork {
		if s.currentBackoff > 0 {
			s.logger.Debug("Resetting idle backoff after rule application")
			s.currentBackoff = 0
			metrics.SetBackoffLevel(0)
		}
		return s.baseInterval
	}

	s.currentBackoff++
	metrics.SetBackoffLevel(float64(s.currentBackoff))

	backoffDuration := float64(s.baseInterval) * math.Pow(s.multiplier, float64(s.currentBackoff-1))
	nextInterval := time.Duration(backoffDuration)

	if nextInterval > s.maxInterval {
		nextInterval = s.maxInterval
	}

	s.logger.WithFields(logrus.Fields{
		"backoff_count": s.currentBackoff,
		"next_interval": nextInterval,
		"max_interval":  s.maxInterval,
	}).Debug("Idle backoff calculated")

	return nextInterval
}

// Reset은 백오프 카운터를 리셋합니다
func (s *IdleBackoffStrategy) Reset() {
	s.currentBackoff = 0
	metrics.SetBackoffLevel(0)
}

// PollingController는 감시 루프를 관리하는 컨트롤러입니다
type PollingController struct {
	strategy Strategy
	ticker   *time.Ticker
	logger   *logrus.Logger
}

// NewPollingController는 새로운 폴링 컨트롤러를 생성합니다
func NewPollingController(strategy Strategy, logger *logrus.Logger) *PollingController {
	return &PollingController{
		strategy: strategy,
		logger:   logger,
	}
}

// Start는 감시 루프를 시작합니다. task는 한 번의 적용 주기를 수행하고
// 실제로 규칙을 적용했는지를 반환합니다
func (c *PollingController) Start(ctx context.Context, task func(context.Context) (bool, error)) error {
	initialInterval := c.strategy.NextInterval(true)
	c.ticker = time.NewTicker(initialInterval)
	defer c.ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-c.ticker.C:
			didWork, err := task(ctx)
			if err != nil {
				c.logger.WithError(err).Error("Watch cycle failed")
			}

			c.ticker.Reset(c.strategy.NextInterval(didWork))
		}
	}
}
