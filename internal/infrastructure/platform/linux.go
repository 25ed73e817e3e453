//go:build linux

package platform

import (
	"context"
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"

	"macshift/internal/domain/entities"
	"macshift/internal/domain/errors"
	"macshift/internal/domain/interfaces"
)

const (
	sysClassNet  = "/sys/class/net"
	udevRulePath = "/etc/udev/rules.d/70-persistent-net.rules"

	// /sys/class/net/*/type 값 (ARPHRD_*)
	sysTypeLoopback     = "772"
	sysTypePointToPoint = "768"
)

// LinuxFacade는 netlink와 sysfs를 사용하는 리눅스용 PlatformFacade 구현체입니다.
// 영속화는 udev 규칙으로, 네트워크 관리 데몬 드레인은 systemctl로 처리합니다.
type LinuxFacade struct {
	executor       interfaces.CommandExecutor
	fs             interfaces.FileSystem
	commandTimeout time.Duration
	logger         *logrus.Logger
}

// NewFacade는 현재 플랫폼용 PlatformFacade를 생성합니다
func NewFacade(executor interfaces.CommandExecutor, fs interfaces.FileSystem, commandTimeout time.Duration, logger *logrus.Logger) interfaces.PlatformFacade {
	return &LinuxFacade{
		executor:       executor,
		fs:             fs,
		commandTimeout: commandTimeout,
		logger:         logger,
	}
}

// EnumerateInterfaces는 netlink로 호스트의 인터페이스 스냅샷 목록을 만듭니다
func (f *LinuxFacade) EnumerateInterfaces(ctx context.Context) ([]entities.NetworkInterface, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, errors.NewSystemError("failed to enumerate network links", err)
	}

	result := make([]entities.NetworkInterface, 0, len(links))
	for _, link := range links {
		attrs := link.Attrs()

		loopback := attrs.Flags&net.FlagLoopback != 0 || f.sysType(attrs.Name) == sysTypeLoopback
		p2p := attrs.Flags&net.FlagPointToPoint != 0 || f.sysType(attrs.Name) == sysTypePointToPoint
		hasAddressFile := f.fs.Exists(filepath.Join(sysClassNet, attrs.Name, "address"))
		supportsChange := hasAddressFile && !loopback && !p2p

		result = append(result, entities.NetworkInterface{
			Name:              attrs.Name,
			Driver:            f.driver(attrs.Name),
			IsLoopback:        loopback,
			IsPointToPoint:    p2p,
			SupportsChange:    supportsChange,
			SupportsPermanent: supportsChange,
		})
	}

	return result, nil
}

// SetLinkState는 링크를 up/down 상태로 전환합니다
func (f *LinuxFacade) SetLinkState(ctx context.Context, name string, state interfaces.LinkState) error {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return errors.NewSystemError(fmt.Sprintf("failed to look up link %s", name), err)
	}

	if state == interfaces.LinkStateDown {
		err = netlink.LinkSetDown(link)
	} else {
		err = netlink.LinkSetUp(link)
	}
	if err != nil {
		return errors.NewCommandError(
			fmt.Sprintf("failed to bring link %s %s", name, state),
			fmt.Sprintf("netlink: link set dev %s %s", name, state),
			"", err)
	}
	return nil
}

// SetAddress는 netlink로 링크의 하드웨어 주소를 변경합니다
func (f *LinuxFacade) SetAddress(ctx context.Context, name string, mac entities.MacAddress) error {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return errors.NewSystemError(fmt.Sprintf("failed to look up link %s", name), err)
	}

	b := mac.Bytes()
	if err := netlink.LinkSetHardwareAddr(link, net.HardwareAddr(b[:])); err != nil {
		return errors.NewCommandError(
			fmt.Sprintf("failed to set hardware address on %s", name),
			fmt.Sprintf("netlink: link set dev %s address %s", name, mac.String()),
			"", err)
	}
	return nil
}

// GetAddress는 인터페이스의 현재 MAC 주소를 읽습니다.
// sysfs를 먼저 읽고, 읽을 수 없으면 netlink로 폴백합니다.
func (f *LinuxFacade) GetAddress(ctx context.Context, name string) (entities.MacAddress, error) {
	addrPath := filepath.Join(sysClassNet, name, "address")
	if content, err := f.fs.ReadFile(addrPath); err == nil {
		if raw := strings.TrimSpace(string(content)); raw != "" {
			return entities.ParseMac(raw)
		}
	}

	link, err := netlink.LinkByName(name)
	if err != nil {
		return entities.MacAddress{}, errors.NewSystemError(fmt.Sprintf("failed to look up link %s", name), err)
	}

	hw := link.Attrs().HardwareAddr
	if len(hw) != 6 {
		return entities.MacAddress{}, errors.NewValidationError(
			fmt.Sprintf("could not read current MAC address of interface %s", name), nil)
	}
	return entities.ParseMac(hw.String())
}

// PersistAddress는 부팅 시 주소를 다시 적용하는 udev 규칙을 기록합니다
func (f *LinuxFacade) PersistAddress(ctx context.Context, name string, mac entities.MacAddress) error {
	rule := buildUdevRule(name, mac)
	if err := f.fs.WriteFile(udevRulePath, []byte(rule), 0644); err != nil {
		return errors.NewSystemError("failed to write udev persistence rule", err)
	}

	if _, err := f.executor.ExecuteWithTimeout(ctx, f.commandTimeout, "udevadm", "control", "--reload-rules"); err != nil {
		return err
	}

	f.logger.WithFields(logrus.Fields{
		"interface": name,
		"mac":       mac.String(),
		"rule_path": udevRulePath,
	}).Info("wrote udev persistence rule")
	return nil
}

// SupportsPersistence는 리눅스에서 항상 true입니다 (udev 규칙)
func (f *LinuxFacade) SupportsPersistence() bool {
	return true
}

// DrainNetworkService는 변경과 경합하는 NetworkManager를 일시 중지합니다
func (f *LinuxFacade) DrainNetworkService(ctx context.Context) error {
	_, err := f.executor.ExecuteWithTimeout(ctx, f.commandTimeout, "systemctl", "stop", "NetworkManager")
	return err
}

// RestoreNetworkService는 중지했던 NetworkManager를 재시작합니다
func (f *LinuxFacade) RestoreNetworkService(ctx context.Context) error {
	_, err := f.executor.ExecuteWithTimeout(ctx, f.commandTimeout, "systemctl", "start", "NetworkManager")
	return err
}

// sysType은 /sys/class/net/<name>/type 값을 읽습니다
func (f *LinuxFacade) sysType(name string) string {
	content, err := f.fs.ReadFile(filepath.Join(sysClassNet, name, "type"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(content))
}

// driver는 sysfs의 device/uevent에서 드라이버 이름을 읽습니다
func (f *LinuxFacade) driver(name string) string {
	content, err := f.fs.ReadFile(filepath.Join(sysClassNet, name, "device", "uevent"))
	if err != nil {
		return ""
	}

	for _, line := range strings.Split(string(content), "\n") {
		if value, ok := strings.CutPrefix(line, "DRIVER="); ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// buildUdevRule은 인터페이스에 고정 주소를 적용하는 udev 규칙 한 줄을 만듭니다
func buildUdevRule(name string, mac entities.MacAddress) string {
	return fmt.Sprintf(
		"ACTION==\"add\", SUBSYSTEM==\"net\", ATTR{address}==\"*\", ATTR{dev_id}==\"0x0\", ATTR{type}==\"1\", KERNEL==\"%s\", ATTR{address}=\"%s\"\n",
		name, mac.WithFormat(entities.FormatColon).String())
}
