package entities

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"macshift/internal/domain/errors"
)

// MacFormat은 MAC 주소의 표기 형식을 나타냅니다
type MacFormat string

const (
	// FormatColon은 aa:bb:cc:dd:ee:ff 형식입니다
	FormatColon MacFormat = "colon"

	// FormatHyphen은 aa-bb-cc-dd-ee-ff 형식입니다
	FormatHyphen MacFormat = "hyphen"

	// FormatDot은 aabb.ccdd.eeff 형식입니다
	FormatDot MacFormat = "dot"

	// FormatPlain은 aabbccddeeff 형식입니다
	FormatPlain MacFormat = "plain"
)

// 각 표기 형식의 전체 일치 패턴
var (
	colonPattern  = regexp.MustCompile(`^([0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$`)
	hyphenPattern = regexp.MustCompile(`^([0-9A-Fa-f]{2}-){5}[0-9A-Fa-f]{2}$`)
	dotPattern    = regexp.MustCompile(`^([0-9A-Fa-f]{4}\.){2}[0-9A-Fa-f]{4}$`)
	plainPattern  = regexp.MustCompile(`^[0-9A-Fa-f]{12}$`)
)

// MacAddress는 6바이트 하드웨어 주소와 표기 형식을 담는 값 객체입니다.
// 파싱 후에는 불변이며, 동등성 비교는 항상 바이트 단위로만 수행합니다.
type MacAddress struct {
	bytes  [6]byte
	format MacFormat
}

// NewMacAddress는 원시 바이트와 표기 형식으로 MacAddress를 생성합니다
func NewMacAddress(bytes [6]byte, format MacFormat) MacAddress {
	return MacAddress{bytes: bytes, format: format}
}

// ParseMac은 문자열을 MacAddress로 파싱합니다.
// 허용하는 형식은 콜론/하이픈 구분 2자리 16진수 6쌍, 점 구분 4자리 16진수 3그룹,
// 구분자 없는 16진수 12자리의 네 가지뿐입니다. 구분자 판별 순서는
// 콜론 → 하이픈 → 점 → 구분자 없음으로 고정되며, 첫 번째로 판별된 형식의
// 패턴에 전체 일치하지 않으면 (혼합 구분자, 길이 오류, 16진수 아님)
// InvalidFormat 에러를 반환합니다.
func ParseMac(s string) (MacAddress, error) {
	var format MacFormat
	var pattern *regexp.Regexp

	switch {
	case strings.Contains(s, ":"):
		format, pattern = FormatColon, colonPattern
	case strings.Contains(s, "-"):
		format, pattern = FormatHyphen, hyphenPattern
	case strings.Contains(s, "."):
		format, pattern = FormatDot, dotPattern
	default:
		format, pattern = FormatPlain, plainPattern
	}

	if !pattern.MatchString(s) {
		return MacAddress{}, errors.NewInvalidFormatError(
			fmt.Sprintf("invalid MAC address %q: expected 12 hexadecimal digits in %s format", s, format), nil)
	}

	clean := strings.NewReplacer(":", "", "-", "", ".", "").Replace(s)

	var bytes [6]byte
	for i := 0; i < 6; i++ {
		v, err := strconv.ParseUint(clean[i*2:i*2+2], 16, 8)
		if err != nil {
			return MacAddress{}, errors.NewInvalidFormatError(
				fmt.Sprintf("invalid MAC address %q", s), err)
		}
		bytes[i] = byte(v)
	}

	return MacAddress{bytes: bytes, format: format}, nil
}

// Bytes는 원시 6바이트를 반환합니다
func (m MacAddress) Bytes() [6]byte {
	return m.bytes
}

// Format은 파싱 시 판별된 표기 형식을 반환합니다
func (m MacAddress) Format() MacFormat {
	return m.format
}

// WithFormat은 같은 바이트에 다른 표기 형식을 적용한 복사본을 반환합니다
func (m MacAddress) WithFormat(format MacFormat) MacAddress {
	return MacAddress{bytes: m.bytes, format: format}
}

// String은 판별된 표기 형식 그대로 소문자 16진수로 렌더링합니다
func (m MacAddress) String() string {
	b := m.bytes
	switch m.format {
	case FormatHyphen:
		return fmt.Sprintf("%02x-%02x-%02x-%02x-%02x-%02x", b[0], b[1], b[2], b[3], b[4], b[5])
	case FormatDot:
		return fmt.Sprintf("%02x%02x.%02x%02x.%02x%02x", b[0], b[1], b[2], b[3], b[4], b[5])
	case FormatPlain:
		return fmt.Sprintf("%02x%02x%02x%02x%02x%02x", b[0], b[1], b[2], b[3], b[4], b[5])
	default:
		return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", b[0], b[1], b[2], b[3], b[4], b[5])
	}
}

// Equal은 바이트 단위 동등성을 비교합니다. 표기 형식은 비교에 포함되지 않습니다
func (m MacAddress) Equal(other MacAddress) bool {
	return m.bytes == other.bytes
}

// IsZero는 파싱되지 않은 제로 값인지 확인합니다
func (m MacAddress) IsZero() bool {
	return m.bytes == [6]byte{} && m.format == ""
}

// VendorPrefix는 제조사에 할당된 상위 3바이트(OUI)를 반환합니다
func (m MacAddress) VendorPrefix() [3]byte {
	return [3]byte{m.bytes[0], m.bytes[1], m.bytes[2]}
}

// VendorPrefixString은 OUI를 대문자 콜론 표기로 반환합니다 (e.g., "00:1A:11")
func (m MacAddress) VendorPrefixString() string {
	return fmt.Sprintf("%02X:%02X:%02X", m.bytes[0], m.bytes[1], m.bytes[2])
}

// IsLocallyAdministered는 로컬 관리 비트(byte0 bit1)가 설정되어 있는지 확인합니다
func (m MacAddress) IsLocallyAdministered() bool {
	return m.bytes[0]&0x02 != 0
}

// IsMulticast는 멀티캐스트 비트(byte0 bit0)가 설정되어 있는지 확인합니다
func (m MacAddress) IsMulticast() bool {
	return m.bytes[0]&0x01 != 0
}

// ParseVendorPrefix는 "XX:XX:XX" 또는 "XX-XX-XX" 형식의 3바이트 벤더 프리픽스를 파싱합니다
func ParseVendorPrefix(s string) ([3]byte, error) {
	var prefix [3]byte

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ':' || r == '-'
	})
	if len(parts) != 3 {
		return prefix, errors.NewInvalidFormatError(
			fmt.Sprintf("invalid vendor prefix %q: expected 3 bytes (e.g., 00:11:22)", s), nil)
	}

	for i, part := range parts {
		v, err := strconv.ParseUint(part, 16, 8)
		if err != nil || len(part) != 2 {
			return prefix, errors.NewInvalidFormatError(
				fmt.Sprintf("invalid vendor prefix %q", s), err)
		}
		prefix[i] = byte(v)
	}

	return prefix, nil
}

// GenerateRandomMac은 무작위 MAC 주소를 생성합니다.
// 벤더 프리픽스가 주어지면 상위 3바이트를 프리픽스로 고정하고 하위 3바이트만
// 무작위로 채웁니다. 프리픽스가 없으면 6바이트 전체를 무작위로 채우되
// byte0의 로컬 관리 비트를 1로, 멀티캐스트 비트를 0으로 강제하여
// 공장 할당 주소나 멀티캐스트 주소와의 충돌을 방지합니다.
func GenerateRandomMac(vendorPrefix *[3]byte) (MacAddress, error) {
	var bytes [6]byte
	if _, err := rand.Read(bytes[:]); err != nil {
		return MacAddress{}, errors.NewSystemError("failed to read random bytes", err)
	}

	if vendorPrefix != nil {
		copy(bytes[0:3], vendorPrefix[:])
	} else {
		bytes[0] = bytes[0]&0xFE | 0x02
	}

	return MacAddress{bytes: bytes, format: FormatColon}, nil
}
