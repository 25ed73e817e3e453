package interfaces

import (
	"context"

	"macshift/internal/domain/entities"
)

// LinkState는 링크의 관리 상태를 나타냅니다
type LinkState string

const (
	LinkStateUp   LinkState = "up"
	LinkStateDown LinkState = "down"
)

// PlatformFacade는 OS별 특권 네트워크 작업의 추상화입니다.
// 플랫폼당 하나의 구현만 존재하며, 오케스트레이터는 이 인터페이스만 사용하므로
// 플랫폼 추가 시 오케스트레이터를 수정할 필요가 없습니다.
type PlatformFacade interface {
	// EnumerateInterfaces는 호스트의 네트워크 인터페이스 스냅샷 목록을 반환합니다
	EnumerateInterfaces(ctx context.Context) ([]entities.NetworkInterface, error)

	// SetLinkState는 인터페이스 링크를 up/down 상태로 전환합니다
	SetLinkState(ctx context.Context, name string, state LinkState) error

	// SetAddress는 인터페이스의 MAC 주소를 변경합니다
	SetAddress(ctx context.Context, name string, mac entities.MacAddress) error

	// GetAddress는 인터페이스의 현재 MAC 주소를 읽습니다
	GetAddress(ctx context.Context, name string) (entities.MacAddress, error)

	// PersistAddress는 재부팅 후에도 유지되는 플랫폼별 영속화 산출물을 기록합니다
	PersistAddress(ctx context.Context, name string, mac entities.MacAddress) error

	// SupportsPersistence는 이 플랫폼에 영속화 메커니즘이 있는지 여부를 반환합니다
	SupportsPersistence() bool

	// DrainNetworkService는 변경과 경합할 수 있는 네트워크 관리 데몬을
	// 일시 중지합니다. 실행 중인 데몬이 없는 호스트가 많으므로 best-effort입니다
	DrainNetworkService(ctx context.Context) error

	// RestoreNetworkService는 중지했던 네트워크 관리 데몬을 재시작합니다
	RestoreNetworkService(ctx context.Context) error
}
