//go:build windows

package platform

import (
	"context"
	"encoding/csv"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"macshift/internal/domain/entities"
	"macshift/internal/domain/errors"
	"macshift/internal/domain/interfaces"
)

// WindowsFacade는 netsh/getmac/PowerShell을 사용하는 윈도우용
// PlatformFacade 구현체입니다. 주소 변경은 어댑터 레지스트리 설정을 통해
// 이루어지므로 본질적으로 재부팅 후에도 유지됩니다.
type WindowsFacade struct {
	executor       interfaces.CommandExecutor
	fs             interfaces.FileSystem
	commandTimeout time.Duration
	logger         *logrus.Logger
}

// NewFacade는 현재 플랫폼용 PlatformFacade를 생성합니다
func NewFacade(executor interfaces.CommandExecutor, fs interfaces.FileSystem, commandTimeout time.Duration, logger *logrus.Logger) interfaces.PlatformFacade {
	return &WindowsFacade{
		executor:       executor,
		fs:             fs,
		commandTimeout: commandTimeout,
		logger:         logger,
	}
}

// EnumerateInterfaces는 호스트의 인터페이스 스냅샷 목록을 만듭니다
func (f *WindowsFacade) EnumerateInterfaces(ctx context.Context) ([]entities.NetworkInterface, error) {
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
			SupportsPermanent: supportsChange,
		})
	}

	return result, nil
}

// SetLinkState는 netsh로 어댑터를 활성화/비활성화합니다
func (f *WindowsFacade) SetLinkState(ctx context.Context, name string, state interfaces.LinkState) error {
	admin := "enable"
	if state == interfaces.LinkStateDown {
		admin = "disable"
	}
	_, err := f.executor.ExecuteWithTimeout(ctx, f.commandTimeout,
		"netsh", "interface", "set", "interface", name, admin)
	return err
}

// SetAddress는 어댑터의 NetworkAddress 레지스트리 설정을 변경합니다
func (f *WindowsFacade) SetAddress(ctx context.Context, name string, mac entities.MacAddress) error {
	plainMac := strings.ToUpper(mac.WithFormat(entities.FormatPlain).String())
	command := fmt.Sprintf("Set-NetAdapter -Name '%s' -MacAddress '%s' -Confirm:$false", name, plainMac)
	_, err := f.executor.ExecuteWithTimeout(ctx, f.commandTimeout,
		"powershell", "-NoProfile", "-Command", command)
	return err
}

// GetAddress는 getmac 출력에서 현재 MAC 주소를 읽습니다
func (f *WindowsFacade) GetAddress(ctx context.Context, name string) (entities.MacAddress, error) {
	output, err := f.executor.ExecuteWithTimeout(ctx, f.commandTimeout, "getmac", "/v", "/fo", "csv", "/nh")
	if err != nil {
		return entities.MacAddress{}, err
	}

	reader := csv.NewReader(strings.NewReader(string(output)))
	reader.FieldsPerRecord = -1
	for {
		record, err := reader.Read()
		if err != nil {
			break
		}
		// 열 순서: 연결 이름, 어댑터 이름, 물리적 주소, 전송 이름
		if len(record) >= 3 && strings.EqualFold(record[0], name) {
			return entities.ParseMac(record[2])
		}
	}

	return entities.MacAddress{}, errors.NewValidationError(
		fmt.Sprintf("could not read current MAC address of interface %s", name), nil)
}

// PersistAddress는 윈도우에서 no-op입니다.
// 레지스트리 기반 설정이 이미 재부팅 후에도 유지되기 때문입니다
func (f *WindowsFacade) PersistAddress(ctx context.Context, name string, mac entities.MacAddress) error {
	f.logger.WithField("interface", name).Debug("registry-backed address is inherently persistent")
	return nil
}

// SupportsPersistence는 윈도우에서 항상 true입니다
func (f *WindowsFacade) SupportsPersistence() bool {
	return true
}

// DrainNetworkService는 윈도우에서 중지할 네트워크 관리 데몬이 없으므로 no-op입니다
func (f *WindowsFacade) DrainNetworkService(ctx context.Context) error {
	return nil
}

// RestoreNetworkService는 윈도우에서 no-op입니다
func (f *WindowsFacade) RestoreNetworkService(ctx context.Context) error {
	return nil
}
