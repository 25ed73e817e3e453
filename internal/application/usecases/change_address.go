package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"macshift/internal/domain/entities"
	"macshift/internal/domain/errors"
	"macshift/internal/domain/interfaces"
	"macshift/internal/infrastructure/metrics"
)

// ChangeAddressConfig는 오케스트레이터의 타이밍 설정입니다
type ChangeAddressConfig struct {
	// LinkDownRetries는 링크 다운 시도 횟수입니다
	LinkDownRetries int

	// RetryDelay는 링크 다운 재시도 사이의 대기 시간입니다
	RetryDelay time.Duration

	// SettleDelay는 링크 업 이후 검증 전 대기 시간입니다
	SettleDelay time.Duration
}

// DefaultChangeAddressConfig는 기본 타이밍 설정입니다
var DefaultChangeAddressConfig = ChangeAddressConfig{
	LinkDownRetries: 3,
	RetryDelay:      1 * time.Second,
	SettleDelay:     1 * time.Second,
}

// ChangeAddressUseCase는 인터페이스 MAC 주소 변경을 오케스트레이션하는
// 유스케이스입니다. 권한 확인 → 인터페이스 검증 → 서비스 드레인 → 링크 다운 →
// 주소 변경 → 링크 업 → 서비스 복원 → 검증 → (영속화) 순서로 진행하며,
// 어느 단계에서든 치명적 실패 시 중단합니다. 중단 시 자동 롤백은 없습니다.
type ChangeAddressUseCase struct {
	facade    interfaces.PlatformFacade
	privilege interfaces.PrivilegeChecker
	baseline  interfaces.BaselineRepository
	clock     interfaces.Clock
	config    ChangeAddressConfig
	logger    *logrus.Logger
}

// NewChangeAddressUseCase는 새로운 ChangeAddressUseCase를 생성합니다
func NewChangeAddressUseCase(
	facade interfaces.PlatformFacade,
	privilege interfaces.PrivilegeChecker,
	baseline interfaces.BaselineRepository,
	clock interfaces.Clock,
	config ChangeAddressConfig,
	logger *logrus.Logger,
) *ChangeAddressUseCase {
	return &ChangeAddressUseCase{
		facade:    facade,
		privilege: privilege,
		baseline:  baseline,
		clock:     clock,
		config:    config,
		logger:    logger,
	}
}

// ChangeAddressInput은 유스케이스의 입력 파라미터입니다
type ChangeAddressInput struct {
	InterfaceName string
	TargetMac     entities.MacAddress
	Permanent     bool
}

// ChangeAddressOutput은 유스케이스의 출력 결과입니다
type ChangeAddressOutput struct {
	AppliedMac         entities.MacAddress
	PreviousMac        entities.MacAddress
	PersistenceHonored bool
	BaselineSaved      bool
}

// changeAttempt는 한 번의 호출 동안만 존재하는 재시도 상태입니다
type changeAttempt struct {
	attempts  int
	lastError error
	target    entities.MacAddress
}

// Execute는 MAC 주소 변경 시퀀스를 실행합니다.
// 링크 다운은 부팅/DHCP 데몬과 흔히 경합하고 멱등하므로 최대 3회 재시도하며,
// 주소 변경과 링크 업 실패는 구조적 문제를 의미하므로 재시도 없이 즉시 중단합니다.
// 성공은 변경 후 재조회한 주소가 바이트 단위로 일치할 때만 보고됩니다.
func (uc *ChangeAddressUseCase) Execute(ctx context.Context, input ChangeAddressInput) (output *ChangeAddressOutput, err error) {
	log := uc.logger.WithFields(logrus.Fields{
		"interface": input.InterfaceName,
		"target":    input.TargetMac.String(),
	})

	startTime := uc.clock.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "failed"
		}
		metrics.RecordChange(input.InterfaceName, status, uc.clock.Now().Sub(startTime).Seconds())
	}()

	// 1. 권한 확인
	if err := uc.privilege.CheckElevated(); err != nil {
		return nil, err
	}

	// 2. 인터페이스 검증
	iface, err := uc.verifyInterface(ctx, input.InterfaceName)
	if err != nil {
		return nil, err
	}

	output = &ChangeAddressOutput{AppliedMac: input.TargetMac}

	// 변경 전 주소를 읽어 최초 변경이라면 베이스라인으로 보존
	if current, err := uc.facade.GetAddress(ctx, input.InterfaceName); err != nil {
		log.WithError(err).Warn("could not read pre-change MAC address")
	} else {
		output.PreviousMac = current
		output.BaselineSaved = uc.saveBaselineIfFirst(input.InterfaceName, current, log)
	}

	// 3. 네트워크 관리 데몬 드레인 (best-effort)
	drained := false
	if err := uc.facade.DrainNetworkService(ctx); err != nil {
		log.WithError(err).Warn("failed to quiesce network management service, continuing")
	} else {
		drained = true
	}
	restored := false
	defer func() {
		if drained && !restored {
			uc.restoreService(ctx, log)
		}
	}()

	// 4. 링크 다운 (재시도)
	if err := uc.bringLinkDown(ctx, input.InterfaceName, input.TargetMac, log); err != nil {
		return nil, err
	}

	// 5. 주소 변경 / 링크 업 (재시도 없음)
	log.Info("setting hardware address")
	if err := uc.facade.SetAddress(ctx, input.InterfaceName, input.TargetMac); err != nil {
		return nil, err
	}

	log.Debug("bringing link up")
	if err := uc.facade.SetLinkState(ctx, input.InterfaceName, interfaces.LinkStateUp); err != nil {
		return nil, err
	}

	// 6. 드레인했던 서비스 복원 (best-effort)
	if drained {
		uc.restoreService(ctx, log)
		restored = true
	}

	// 7. 안정화 대기 후 검증
	uc.clock.Sleep(uc.config.SettleDelay)
	if err := uc.verifyChange(ctx, input.InterfaceName, input.TargetMac); err != nil {
		return nil, err
	}

	// 8. 영속화 (요청되었고 플랫폼이 지원하는 경우에만)
	if input.Permanent {
		if iface.SupportsPermanent && uc.facade.SupportsPersistence() {
			if err := uc.facade.PersistAddress(ctx, input.InterfaceName, input.TargetMac); err != nil {
				return nil, err
			}
			output.PersistenceHonored = true
		} else {
			// 영속화 메커니즘이 없는 플랫폼에서는 조용히 일시 변경으로 다운그레이드
			log.Info("permanent change not supported on this platform, applied as temporary")
		}
	}

	log.WithField("persistent", output.PersistenceHonored).Info("MAC address changed and verified")
	return output, nil
}

// verifyInterface는 대상 인터페이스가 존재하고 주소 변경을 지원하는지 확인합니다
func (uc *ChangeAddressUseCase) verifyInterface(ctx context.Context, name string) (*entities.NetworkInterface, error) {
	ifaces, err := uc.facade.EnumerateInterfaces(ctx)
	if err != nil {
		return nil, err
	}

	for i := range ifaces {
		if ifaces[i].Name != name {
			continue
		}
		iface := ifaces[i]

		if iface.IsLoopback {
			return nil, errors.NewValidationError(
				fmt.Sprintf("cannot change MAC address of loopback interface %s", name), nil)
		}
		if iface.IsPointToPoint {
			return nil, errors.NewValidationError(
				fmt.Sprintf("cannot change MAC address of point-to-point interface %s", name), nil)
		}
		if !iface.SupportsChange {
			return nil, errors.NewValidationError(
				fmt.Sprintf("interface %s does not support MAC address changes", name), nil)
		}
		return &iface, nil
	}

	return nil, errors.NewValidationError(fmt.Sprintf("interface %s not found", name), nil)
}

// saveBaselineIfFirst는 베이스라인이 없을 때만 변경 전 주소를 저장합니다.
// 저장 실패는 변경을 막지 않습니다
func (uc *ChangeAddressUseCase) saveBaselineIfFirst(name string, current entities.MacAddress, log *logrus.Entry) bool {
	if uc.baseline == nil {
		return false
	}

	if _, ok, err := uc.baseline.Get(name); err != nil {
		log.WithError(err).Warn("could not read baseline store")
		return false
	} else if ok {
		return false
	}

	if err := uc.baseline.Save(name, current); err != nil {
		log.WithError(err).Warn("could not save original MAC address")
		return false
	}

	log.WithField("original_mac", current.String()).Info("saved original MAC address")
	return true
}

// bringLinkDown은 링크를 다운 상태로 전환합니다.
// 재시도 예산을 모두 소진하면 마지막 에러를 담은 SystemError로 중단합니다
func (uc *ChangeAddressUseCase) bringLinkDown(ctx context.Context, name string, target entities.MacAddress, log *logrus.Entry) error {
	attempt := changeAttempt{target: target}

	for attempt.attempts < uc.config.LinkDownRetries {
		attempt.attempts++

		err := uc.facade.SetLinkState(ctx, name, interfaces.LinkStateDown)
		if err == nil {
			return nil
		}
		attempt.lastError = err

		log.WithError(err).WithField("attempt", attempt.attempts).Warn("failed to bring link down, retrying")

		if attempt.attempts < uc.config.LinkDownRetries {
			metrics.RecordLinkDownRetry()
			uc.clock.Sleep(uc.config.RetryDelay)
		}
	}

	return errors.NewSystemError(
		fmt.Sprintf("failed to bring link %s down after %d attempts", name, attempt.attempts),
		attempt.lastError)
}

// verifyChange는 재조회한 현재 주소를 요청 주소와 바이트 단위로 비교합니다
func (uc *ChangeAddressUseCase) verifyChange(ctx context.Context, name string, expected entities.MacAddress) error {
	current, err := uc.facade.GetAddress(ctx, name)
	if err != nil {
		return err
	}

	if !current.Equal(expected) {
		metrics.RecordVerificationMismatch()
		return errors.NewValidationError(
			fmt.Sprintf("MAC address change verification failed: expected %s, got %s",
				expected.String(), current.String()), nil)
	}
	return nil
}

func (uc *ChangeAddressUseCase) restoreService(ctx context.Context, log *logrus.Entry) {
	if err := uc.facade.RestoreNetworkService(ctx); err != nil {
		log.WithError(err).Warn("failed to restart network management service")
	}
}
