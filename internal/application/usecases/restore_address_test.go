package usecases

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"macshift/internal/domain/entities"
	domainErrors "macshift/internal/domain/errors"
	"macshift/internal/domain/interfaces"
)

func TestRestoreAddressUseCase_Execute(t *testing.T) {
	originalMac := "00:11:22:33:44:55"
	currentMac := "66:77:88:99:AA:BB"

	newFixture := func() (*RestoreAddressUseCase, *changeUseCaseFixture) {
		logger := logrus.New()
		logger.SetLevel(logrus.FatalLevel)

		f := newChangeUseCaseFixture()
		return NewRestoreAddressUseCase(f.baseline, f.useCase, logger), f
	}

	t.Run("저장된 원본 MAC으로 복원", func(t *testing.T) {
		useCase, f := newFixture()
		original := testMac(t, originalMac)

		f.baseline.On("Get", "eth0").Return(original, true, nil)
		f.privilege.On("CheckElevated").Return(nil)
		f.facade.On("EnumerateInterfaces", mock.Anything).
			Return([]entities.NetworkInterface{changeableInterface("eth0")}, nil)
		f.facade.On("GetAddress", mock.Anything, "eth0").Return(testMac(t, currentMac), nil).Once()
		f.facade.On("DrainNetworkService", mock.Anything).Return(nil)
		f.facade.On("SetLinkState", mock.Anything, "eth0", interfaces.LinkStateDown).Return(nil)
		f.facade.On("SetAddress", mock.Anything, "eth0", original).Return(nil)
		f.facade.On("SetLinkState", mock.Anything, "eth0", interfaces.LinkStateUp).Return(nil)
		f.facade.On("RestoreNetworkService", mock.Anything).Return(nil)
		f.facade.On("GetAddress", mock.Anything, "eth0").Return(original, nil).Once()

		output, err := useCase.Execute(context.Background(), RestoreAddressInput{InterfaceName: "eth0"})

		require.NoError(t, err)
		assert.True(t, output.AppliedMac.Equal(original))
		// 복원은 항상 일시 변경으로 수행된다
		f.facade.AssertNotCalled(t, "PersistAddress", mock.Anything, mock.Anything, mock.Anything)
		f.facade.AssertExpectations(t)
	})

	t.Run("저장된 베이스라인이 없으면 ValidationFailed", func(t *testing.T) {
		useCase, f := newFixture()

		f.baseline.On("Get", "eth0").Return(entities.MacAddress{}, false, nil)

		_, err := useCase.Execute(context.Background(), RestoreAddressInput{InterfaceName: "eth0"})

		require.Error(t, err)
		assert.True(t, domainErrors.IsValidationError(err))
		assert.Contains(t, err.Error(), "no original MAC address saved")
		f.facade.AssertNotCalled(t, "SetAddress", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("베이스라인 조회 실패는 그대로 전파", func(t *testing.T) {
		useCase, f := newFixture()

		f.baseline.On("Get", "eth0").
			Return(entities.MacAddress{}, false, domainErrors.NewSystemError("corrupt store", nil))

		_, err := useCase.Execute(context.Background(), RestoreAddressInput{InterfaceName: "eth0"})

		require.Error(t, err)
		assert.True(t, domainErrors.IsSystemError(err))
	})
}
