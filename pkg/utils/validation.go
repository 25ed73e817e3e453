package utils

import (
	"fmt"
	"regexp"
)

var (
	// 인터페이스 이름 패턴: 영숫자로 시작, 최대 15자
	interfacePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,14}$`)

	// MAC 주소 4가지 표기 패턴
	macPattern = regexp.MustCompile(
		`^([0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$|^([0-9A-Fa-f]{2}-){5}[0-9A-Fa-f]{2}$|^([0-9A-Fa-f]{4}\.){2}[0-9A-Fa-f]{4}$|^[0-9A-Fa-f]{12}$`)

	// 벤더 프리픽스 패턴: 3바이트, 구분자 생략 가능
	vendorPrefixPattern = regexp.MustCompile(`^[0-9A-Fa-f]{2}([:-]?[0-9A-Fa-f]{2}){2}$`)
)

// ValidateInterfaceName은 인터페이스 이름이 유효한지 검증
func ValidateInterfaceName(name string) error {
	if name == "" {
		return fmt.Errorf("인터페이스 이름이 비어있음")
	}

	if !interfacePattern.MatchString(name) {
		return fmt.Errorf("잘못된 인터페이스 이름 형식: %s", name)
	}

	return nil
}

// IsValidMacFormat은 문자열이 지원되는 MAC 표기 중 하나인지 확인
func IsValidMacFormat(value string) bool {
	return macPattern.MatchString(value)
}

// IsValidVendorPrefix는 문자열이 3바이트 벤더 프리픽스 표기인지 확인
func IsValidVendorPrefix(value string) bool {
	return vendorPrefixPattern.MatchString(value)
}
