package entities

// NetworkInterface는 네트워크 인터페이스의 읽기 전용 스냅샷입니다.
// 검증 시점에 생성되어 한 번의 변경 작업 동안만 사용되고 폐기됩니다.
type NetworkInterface struct {
	Name              string
	Driver            string
	Vendor            string
	IsLoopback        bool
	IsPointToPoint    bool
	SupportsChange    bool
	SupportsPermanent bool
}

// CanChangeAddress는 이 인터페이스의 MAC 주소를 변경할 수 있는지 확인합니다.
// 루프백과 점대점 인터페이스는 주소 변경을 지원하지 않습니다.
func (ni NetworkInterface) CanChangeAddress() bool {
	return ni.SupportsChange && !ni.IsLoopback && !ni.IsPointToPoint
}
