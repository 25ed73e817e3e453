package usecases

import (
	"context"

	"github.com/sirupsen/logrus"

	"macshift/internal/domain/entities"
	"macshift/internal/domain/interfaces"
	"macshift/internal/domain/services"
	"macshift/internal/infrastructure/metrics"
)

// ApplyRulesUseCase는 실행 중인 애플리케이션과 저장된 규칙으로부터
// 인터페이스별 재정의 MAC을 결정하고 적용하는 유스케이스입니다
type ApplyRulesUseCase struct {
	rules     interfaces.RuleRepository
	filter    interfaces.FilterRepository
	scheduler *services.RuleScheduler
	processes interfaces.ProcessLister
	facade    interfaces.PlatformFacade
	history   interfaces.HistoryRepository
	changer   *ChangeAddressUseCase
	clock     interfaces.Clock
	logger    *logrus.Logger
}

// NewApplyRulesUseCase는 새로운 ApplyRulesUseCase를 생성합니다
func NewApplyRulesUseCase(
	rules interfaces.RuleRepository,
	filter interfaces.FilterRepository,
	scheduler *services.RuleScheduler,
	processes interfaces.ProcessLister,
	facade interfaces.PlatformFacade,
	history interfaces.HistoryRepository,
	changer *ChangeAddressUseCase,
	clock interfaces.Clock,
	logger *logrus.Logger,
) *ApplyRulesUseCase {
	return &ApplyRulesUseCase{
		rules:     rules,
		filter:    filter,
		scheduler: scheduler,
		processes: processes,
		facade:    facade,
		history:   history,
		changer:   changer,
		clock:     clock,
		logger:    logger,
	}
}

// ApplyRulesOutput은 유스케이스의 출력 결과입니다
type ApplyRulesOutput struct {
	MatchedCount int
	AppliedCount int
	FailedCount  int
	SkippedCount int
}

// Execute는 한 사이클의 규칙 적용을 수행합니다.
// 규칙이 걸린 인터페이스마다 재정의를 선택하고, 필터를 통과하며 현재 주소와
// 다른 경우에만 오케스트레이터를 호출합니다. 필터에서 거부된 MAC은
// 오케스트레이터에 절대 도달하지 않습니다.
func (uc *ApplyRulesUseCase) Execute(ctx context.Context) (*ApplyRulesOutput, error) {
	allRules, err := uc.rules.List()
	if err != nil {
		return nil, err
	}
	if len(allRules) == 0 {
		return &ApplyRulesOutput{}, nil
	}

	running, err := uc.processes.RunningProcessNames(ctx)
	if err != nil {
		return nil, err
	}

	output := &ApplyRulesOutput{}
	for _, ifaceName := range ruleInterfaces(allRules) {
		rule := uc.scheduler.SelectOverride(ifaceName, allRules, running)
		if rule == nil {
			continue
		}
		output.MatchedCount++
		metrics.RecordRuleMatch(rule.AppName)

		uc.applyRule(ctx, rule, output)
	}

	return output, nil
}

// applyRule은 선택된 단일 규칙을 적용합니다
func (uc *ApplyRulesUseCase) applyRule(ctx context.Context, rule *entities.AppRule, output *ApplyRulesOutput) {
	log := uc.logger.WithFields(logrus.Fields{
		"app_name":  rule.AppName,
		"interface": rule.Interface,
		"mac":       rule.MacAddress,
	})

	target, err := rule.TargetMac()
	if err != nil {
		log.WithError(err).Error("rule holds an unparseable MAC address")
		output.FailedCount++
		return
	}

	allowed, err := uc.filter.IsAllowed(target)
	if err != nil {
		log.WithError(err).Error("failed to evaluate prefix filter")
		output.FailedCount++
		return
	}
	if !allowed {
		log.Warn("rule MAC rejected by prefix filter, skipping")
		output.SkippedCount++
		return
	}

	// 이미 같은 주소면 변경하지 않음
	if current, err := uc.facade.GetAddress(ctx, rule.Interface); err == nil && current.Equal(target) {
		log.Debug("interface already has the rule's MAC address")
		output.SkippedCount++
		return
	}

	result, err := uc.changer.Execute(ctx, ChangeAddressInput{
		InterfaceName: rule.Interface,
		TargetMac:     target,
	})
	if err != nil {
		log.WithError(err).Error("failed to apply rule override")
		output.FailedCount++
		uc.appendHistory(entities.ChangeRecord{
			Interface:  rule.Interface,
			AppliedMac: target.String(),
			Result:     entities.ChangeResultFailed,
			Error:      err.Error(),
			Timestamp:  uc.clock.Now(),
		}, log)
		return
	}

	output.AppliedCount++
	if err := uc.rules.TouchApplied(rule.AppName, rule.Interface, uc.clock.Now()); err != nil {
		log.WithError(err).Warn("failed to update rule last-applied timestamp")
	}
	uc.appendHistory(entities.ChangeRecord{
		Interface:          rule.Interface,
		PreviousMac:        result.PreviousMac.String(),
		AppliedMac:         result.AppliedMac.String(),
		Result:             entities.ChangeResultSuccess,
		PersistenceHonored: result.PersistenceHonored,
		Timestamp:          uc.clock.Now(),
	}, log)

	log.Info("rule override applied")
}

func (uc *ApplyRulesUseCase) appendHistory(record entities.ChangeRecord, log *logrus.Entry) {
	if uc.history == nil {
		return
	}
	if err := uc.history.Append(record); err != nil {
		log.WithError(err).Warn("failed to append change history")
	}
}

// ruleInterfaces는 규칙에 등장하는 인터페이스 이름을 삽입 순서대로 중복 없이 반환합니다
func ruleInterfaces(rules []entities.AppRule) []string {
	seen := make(map[string]struct{}, len(rules))
	var names []string
	for _, rule := range rules {
		if _, ok := seen[rule.Interface]; ok {
			continue
		}
		seen[rule.Interface] = struct{}{}
		names = append(names, rule.Interface)
	}
	return names
}
