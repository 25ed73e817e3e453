//go:build darwin

package platform

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"macshift/internal/domain/entities"
	"macshift/internal/domain/errors"
	"macshift/internal/domain/interfaces"
)

// DarwinFacade는 ifconfig를 사용하는 macOS용 PlatformFacade 구현체입니다.
// macOS에는 MAC 주소 영속화 메커니즘이 없어 permanent 요청은 일시 변경으로
// 다운그레이드됩니다.
type DarwinFacade struct {
	executor       interfaces.CommandExecutor
	fs             interfaces.FileSystem
	commandTimeout time.Duration
	logger         *logrus.Logger
}

// NewFacade는 현재 플랫폼용 PlatformFacade를 생성합니다
func NewFacade(executor interfaces.CommandExecutor, fs interfaces.FileSystem, commandTimeout time.Duration, logger *logrus.Logger) interfaces.PlatformFacade {
	return &DarwinFacade{
		executor:       executor,
		fs:             fs,
		commandTimeout: commandTimeout,
		logger:         logger,
	}
}

// EnumerateInterfaces는 호스트의 인터페이스 스냅샷 목록을 만듭니다
func (f *DarwinFacade) EnumerateInterfaces(ctx context.Context) ([]entities.NetworkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, errors.NewSystemError("failed to enumerate network interfaces", err)
	}

	result := make([]entities.NetworkInterface, 0, len(ifaces))
	for _, iface := range ifaces {
		loopback := iface.Flags&net.FlagLoopback != 0
		p2p := iface.Flags&net.FlagPointToPoint != 0
		supportsChange := len(iface.HardwareAddr) == 6 && !loopback && !p2p

		result = append(result, entities.NetworkInterface{
			Name:              iface.Name,
			IsLoopback:        loopback,
			IsPointToPoint:    p2p,
			SupportsChange:    supportsChange,
			SupportsPermanent: false,
		})
	}

	return result, nil
}

// SetLinkState는 ifconfig로 링크를 up/down 상태로 전환합니다
func (f *DarwinFacade) SetLinkState(ctx context.Context, name string, state interfaces.LinkState) error {
	_, err := f.executor.ExecuteWithTimeout(ctx, f.commandTimeout, "ifconfig", name, string(state))
	return err
}

// SetAddress는 ifconfig로 MAC 주소를 변경합니다
func (f *DarwinFacade) SetAddress(ctx context.Context, name string, mac entities.MacAddress) error {
	colonMac := mac.WithFormat(entities.FormatColon).String()
	_, err := f.executor.ExecuteWithTimeout(ctx, f.commandTimeout, "ifconfig", name, "ether", colonMac)
	return err
}

// GetAddress는 ifconfig 출력에서 현재 MAC 주소를 읽습니다
func (f *DarwinFacade) GetAddress(ctx context.Context, name string) (entities.MacAddress, error) {
	output, err := f.executor.ExecuteWithTimeout(ctx, f.commandTimeout, "ifconfig", name)
	if err != nil {
		return entities.MacAddress{}, err
	}

	for _, line := range strings.Split(string(output), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "ether" {
			return entities.ParseMac(fields[1])
		}
	}

	return entities.MacAddress{}, errors.NewValidationError(
		fmt.Sprintf("could not read current MAC address of interface %s", name), nil)
}

// PersistAddress는 macOS에서 지원되지 않습니다
func (f *DarwinFacade) PersistAddress(ctx context.Context, name string, mac entities.MacAddress) error {
	return errors.NewUnsupportedPlatformError("permanent MAC address changes are not supported on macOS")
}

// SupportsPersistence는 macOS에서 항상 false입니다
func (f *DarwinFacade) SupportsPersistence() bool {
	return false
}

// DrainNetworkService는 macOS에서 중지할 네트워크 관리 데몬이 없으므로 no-op입니다
func (f *DarwinFacade) DrainNetworkService(ctx context.Context) error {
	return nil
}

// RestoreNetworkService는 macOS에서 no-op입니다
func (f *DarwinFacade) RestoreNetworkService(ctx context.Context) error {
	return nil
}
