package services

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"macshift/internal/domain/entities"
	"macshift/internal/domain/interfaces"
)

// RuleScheduler는 저장된 규칙과 실행 중인 프로세스 목록으로부터
// 인터페이스에 적용할 재정의 MAC을 결정하는 스케줄링 엔진입니다
type RuleScheduler struct {
	clock  interfaces.Clock
	logger *logrus.Logger
}

// NewRuleScheduler는 새로운 RuleScheduler를 생성합니다
func NewRuleScheduler(clock interfaces.Clock, logger *logrus.Logger) *RuleScheduler {
	return &RuleScheduler{
		clock:  clock,
		logger: logger,
	}
}

// IsActive는 규칙이 주어진 시각에 활성 상태인지 판정합니다.
// 비활성화된 규칙은 항상 false입니다. 스케줄이 없는 활성 규칙은 항상 활성이며,
// 스케줄이 있으면 호스트 로컬 요일 포함 여부와 start ≤ now ≤ end (HH:MM,
// 타임존 정규화 없음)를 모두 만족해야 합니다.
func (s *RuleScheduler) IsActive(rule *entities.AppRule, now time.Time) bool {
	if !rule.Enabled {
		return false
	}

	schedule := rule.Schedule
	if schedule == nil {
		return true
	}

	weekday := strings.ToLower(now.Weekday().String())
	if !schedule.ContainsDay(weekday) {
		return false
	}

	start, err := entities.ParseClockTime(schedule.StartTime)
	if err != nil {
		s.logger.WithError(err).WithField("rule", rule.Key()).Warn("invalid schedule start time, treating rule as inactive")
		return false
	}
	end, err := entities.ParseClockTime(schedule.EndTime)
	if err != nil {
		s.logger.WithError(err).WithField("rule", rule.Key()).Warn("invalid schedule end time, treating rule as inactive")
		return false
	}

	// start > end인 자정 초과 창은 생성 시점에 거부되지만, 외부에서 편집된
	// 저장 파일이 유입될 수 있으므로 항상 비활성으로 취급합니다
	if start > end {
		return false
	}

	minutes := now.Hour()*60 + now.Minute()
	return minutes >= start && minutes <= end
}

// SelectOverride는 인터페이스에 적용할 재정의 MAC을 선택합니다.
// 규칙은 저장소의 삽입 순서(규칙이 추가된 순서)대로 스캔되며, app_name이
// 실행 중인 프로세스 목록에 있고 IsActive를 만족하는 첫 번째 규칙이 선택됩니다.
// 동시에 일치하는 규칙이 여러 개라도 병합이나 재우선순위화 없이 이 순서의
// 첫 규칙만 반환합니다. 일치하는 규칙이 없으면 nil을 반환합니다.
func (s *RuleScheduler) SelectOverride(ifaceName string, rules []entities.AppRule, runningAppNames []string) *entities.AppRule {
	running := make(map[string]struct{}, len(runningAppNames))
	for _, name := range runningAppNames {
		running[name] = struct{}{}
	}

	now := s.clock.Now()
	for i := range rules {
		rule := &rules[i]
		if rule.Interface != ifaceName {
			continue
		}
		if _, ok := running[rule.AppName]; !ok {
			continue
		}
		if !s.IsActive(rule, now) {
			continue
		}

		s.logger.WithFields(logrus.Fields{
			"app_name":  rule.AppName,
			"interface": ifaceName,
			"mac":       rule.MacAddress,
		}).Debug("rule matched running application")
		return rule
	}

	return nil
}
