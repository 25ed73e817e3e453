package usecases

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"macshift/internal/domain/errors"
	"macshift/internal/domain/interfaces"
)

// RestoreAddressUseCase는 베이스라인 저장소에 보관된 원본 MAC으로
// 인터페이스를 되돌리는 유스케이스입니다
type RestoreAddressUseCase struct {
	baseline interfaces.BaselineRepository
	changer  *ChangeAddressUseCase
	logger   *logrus.Logger
}

// NewRestoreAddressUseCase는 새로운 RestoreAddressUseCase를 생성합니다
func NewRestoreAddressUseCase(
	baseline interfaces.BaselineRepository,
	changer *ChangeAddressUseCase,
	logger *logrus.Logger,
) *RestoreAddressUseCase {
	return &RestoreAddressUseCase{
		baseline: baseline,
		changer:  changer,
		logger:   logger,
	}
}

// RestoreAddressInput은 유스케이스의 입력 파라미터입니다
type RestoreAddressInput struct {
	InterfaceName string
}

// Execute는 저장된 원본 MAC으로 복원합니다.
// 저장된 베이스라인이 없으면 ValidationFailed 에러를 반환합니다
func (uc *RestoreAddressUseCase) Execute(ctx context.Context, input RestoreAddressInput) (*ChangeAddressOutput, error) {
	original, ok, err := uc.baseline.Get(input.InterfaceName)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NewValidationError(
			fmt.Sprintf("no original MAC address saved for interface %s", input.InterfaceName), nil)
	}

	uc.logger.WithFields(logrus.Fields{
		"interface":    input.InterfaceName,
		"original_mac": original.String(),
	}).Info("restoring original MAC address")

	return uc.changer.Execute(ctx, ChangeAddressInput{
		InterfaceName: input.InterfaceName,
		TargetMac:     original,
		Permanent:     false,
	})
}
