package interfaces

import (
	"time"

	"macshift/internal/domain/entities"
)

// RuleRepository는 (app_name, interface) 키로 AppRule을 관리하는 저장소입니다.
// 영속성은 전체 파일 읽기-덮어쓰기 방식이며 프로세스 간 트랜잭션은 보장하지 않습니다.
type RuleRepository interface {
	// Add는 규칙을 추가합니다. 같은 키의 기존 규칙은 제자리에서 교체되어
	// 삽입 순서가 유지됩니다
	Add(rule entities.AppRule) error

	// Remove는 규칙을 삭제합니다
	Remove(appName, ifaceName string) error

	// Get은 규칙을 조회합니다. 없으면 NotFound 에러를 반환합니다
	Get(appName, ifaceName string) (*entities.AppRule, error)

	// List는 모든 규칙을 삽입 순서대로 반환합니다
	List() ([]entities.AppRule, error)

	// SetEnabled는 규칙의 활성화 여부를 변경합니다
	SetEnabled(appName, ifaceName string, enabled bool) error

	// TouchApplied는 규칙의 마지막 적용 시각을 갱신합니다
	TouchApplied(appName, ifaceName string, at time.Time) error
}

// BaselineRepository는 인터페이스별 최초 변경 이전의 원본 MAC을 보관합니다
type BaselineRepository interface {
	// Save는 인터페이스의 원본 MAC을 저장합니다
	Save(ifaceName string, mac entities.MacAddress) error

	// Get은 저장된 원본 MAC을 반환합니다. 저장된 값이 없으면 ok=false입니다
	Get(ifaceName string) (mac entities.MacAddress, ok bool, err error)

	// Interfaces는 베이스라인이 저장된 인터페이스 이름 목록을 반환합니다
	Interfaces() ([]string, error)
}

// FilterRepository는 벤더 프리픽스 허용/차단 목록을 관리합니다
type FilterRepository interface {
	// Allow는 프리픽스를 허용 목록에 추가합니다
	Allow(prefix string) error

	// Deny는 프리픽스를 차단 목록에 추가합니다
	Deny(prefix string) error

	// IsAllowed는 MAC의 벤더 프리픽스가 필터를 통과하는지 판정합니다.
	// 허용 목록이 비어있지 않으면 포함 여부를, 아니면 차단 목록 제외 여부를 따릅니다
	IsAllowed(mac entities.MacAddress) (bool, error)

	// List는 현재 허용/차단 목록을 반환합니다
	List() (allowed []string, denied []string, err error)
}

// HistoryRepository는 적용 완료된 변경 결과의 추가 전용 로그입니다
type HistoryRepository interface {
	// Append는 변경 결과를 이력에 추가합니다
	Append(record entities.ChangeRecord) error

	// List는 기록된 순서대로 이력을 반환합니다
	List() ([]entities.ChangeRecord, error)
}

// VendorInfo는 OUI 데이터베이스의 제조사 정보입니다
type VendorInfo struct {
	Prefix  string `yaml:"prefix"`
	Name    string `yaml:"name"`
	Country string `yaml:"country"`
}

// VendorRepository는 OUI(벤더 프리픽스) 데이터베이스 저장소입니다
type VendorRepository interface {
	// Get은 프리픽스("AA:BB:CC" 또는 구분자 없는 6자리)로 제조사를 조회합니다
	Get(prefix string) (*VendorInfo, error)

	// All은 등록된 모든 제조사를 반환합니다 (프리픽스 오름차순)
	All() ([]VendorInfo, error)

	// ByCountry는 국가 코드로 제조사 목록을 조회합니다 (프리픽스 오름차순)
	ByCountry(country string) ([]VendorInfo, error)

	// ReplaceAll은 데이터베이스 전체를 교체합니다
	ReplaceAll(vendors map[string]VendorInfo) error

	// Count는 등록된 제조사 수를 반환합니다
	Count() (int, error)
}
