//go:build linux

package platform

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"macshift/internal/domain/entities"
	"macshift/internal/infrastructure/adapters"
)

func TestBuildUdevRule(t *testing.T) {
	mac, err := entities.ParseMac("AABBCCDDEEFF")
	require.NoError(t, err)

	rule := buildUdevRule("eth0", mac)

	// 표기 형식과 무관하게 콜론 구분 소문자로 기록되어야 함
	assert.Contains(t, rule, `KERNEL=="eth0"`)
	assert.Contains(t, rule, `ATTR{address}="aa:bb:cc:dd:ee:ff"`)
	assert.Contains(t, rule, `SUBSYSTEM=="net"`)
}

type mockCommandExecutor struct {
	mock.Mock
}

func (m *mockCommandExecutor) Execute(ctx context.Context, command string, args ...string) ([]byte, error) {
	called := m.Called(ctx, command, args)
	return called.Get(0).([]byte), called.Error(1)
}

func (m *mockCommandExecutor) ExecuteWithTimeout(ctx context.Context, timeout time.Duration, command string, args ...string) ([]byte, error) {
	called := m.Called(ctx, timeout, command, args)
	return called.Get(0).([]byte), called.Error(1)
}

func TestLinuxFacade_UsesConfiguredCommandTimeout(t *testing.T) {
	executor := new(mockCommandExecutor)
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)

	timeout := 7 * time.Second
	facade := NewFacade(executor, adapters.NewRealFileSystem(), timeout, logger)

	executor.On("ExecuteWithTimeout", mock.Anything, timeout, "systemctl", []string{"stop", "NetworkManager"}).
		Return([]byte{}, nil).Once()
	executor.On("ExecuteWithTimeout", mock.Anything, timeout, "systemctl", []string{"start", "NetworkManager"}).
		Return([]byte{}, nil).Once()

	require.NoError(t, facade.DrainNetworkService(context.Background()))
	require.NoError(t, facade.RestoreNetworkService(context.Background()))
	executor.AssertExpectations(t)
}
