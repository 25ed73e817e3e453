package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType은 에러의 종류를 나타냅니다
type ErrorType string

const (
	// ErrorTypeValidation은 인터페이스 검증 실패 또는 변경 후 검증 불일치를 나타냅니다
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypePermissionDenied는 상승된 권한 없이 호출되었음을 나타냅니다
	ErrorTypePermissionDenied ErrorType = "PERMISSION_DENIED"

	// ErrorTypeSystem은 하부 명령 실행 실패를 나타냅니다
	ErrorTypeSystem ErrorType = "SYSTEM"

	// ErrorTypeInvalidFormat은 MAC 주소나 벤더 프리픽스 형식 오류를 나타냅니다
	ErrorTypeInvalidFormat ErrorType = "INVALID_FORMAT"

	// ErrorTypeNotFound는 리소스를 찾을 수 없음을 나타냅니다
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeUnsupportedPlatform은 현재 호스트용 플랫폼 구현이 없음을 나타냅니다
	ErrorTypeUnsupportedPlatform ErrorType = "UNSUPPORTED_PLATFORM"

	// ErrorTypeTimeout은 타임아웃 에러를 나타냅니다
	ErrorTypeTimeout ErrorType = "TIMEOUT"
)

// DomainError는 도메인 레벨의 에러를 나타냅니다.
// 상승된 권한으로 실행한 명령이 실패한 경우 Command와 Output에
// 실행한 명령과 캡처된 stdout/stderr 전문이 보존됩니다.
type DomainError struct {
	Type    ErrorType
	Message string
	Command string
	Output  string
	Cause   error
}

// Error는 error 인터페이스를 구현합니다
func (e *DomainError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", e.Type, e.Message)
	if e.Command != "" {
		fmt.Fprintf(&sb, " (command: %s)", e.Command)
	}
	if e.Cause != nil {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	if e.Output != "" {
		fmt.Fprintf(&sb, ", output: %s", strings.TrimSpace(e.Output))
	}
	return sb.String()
}

// Unwrap은 내부 에러를 반환합니다
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is는 에러 비교를 위한 메서드입니다
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// 생성자 함수들

// NewValidationError는 검증 에러를 생성합니다
func NewValidationError(message string, cause error) *DomainError {
	return &DomainError{
		Type:    ErrorTypeValidation,
		Message: message,
		Cause:   cause,
	}
}

// NewPermissionDeniedError는 권한 부족 에러를 생성합니다
func NewPermissionDeniedError(message string) *DomainError {
	return &DomainError{
		Type:    ErrorTypePermissionDenied,
		Message: message,
	}
}

// NewSystemError는 시스템 에러를 생성합니다
func NewSystemError(message string, cause error) *DomainError {
	return &DomainError{
		Type:    ErrorTypeSystem,
		Message: message,
		Cause:   cause,
	}
}

// NewCommandError는 명령 실행 실패 에러를 생성합니다.
// 실행한 명령 전체와 캡처된 출력을 함께 보존합니다.
func NewCommandError(message, command, output string, cause error) *DomainError {
	return &DomainError{
		Type:    ErrorTypeSystem,
		Message: message,
		Command: command,
		Output:  output,
		Cause:   cause,
	}
}

// NewInvalidFormatError는 형식 오류 에러를 생성합니다
func NewInvalidFormatError(message string, cause error) *DomainError {
	return &DomainError{
		Type:    ErrorTypeInvalidFormat,
		Message: message,
		Cause:   cause,
	}
}

// NewNotFoundError는 리소스를 찾을 수 없는 에러를 생성합니다
func NewNotFoundError(message string) *DomainError {
	return &DomainError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewUnsupportedPlatformError는 미지원 플랫폼 에러를 생성합니다
func NewUnsupportedPlatformError(message string) *DomainError {
	return &DomainError{
		Type:    ErrorTypeUnsupportedPlatform,
		Message: message,
	}
}

// NewTimeoutError는 타임아웃 에러를 생성합니다
func NewTimeoutError(message string) *DomainError {
	return &DomainError{
		Type:    ErrorTypeTimeout,
		Message: message,
	}
}

// 에러 타입 확인 헬퍼 함수들

func isType(err error, t ErrorType) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == t
	}
	return false
}

// IsValidationError는 검증 에러인지 확인합니다
func IsValidationError(err error) bool {
	return isType(err, ErrorTypeValidation)
}

// IsPermissionDeniedError는 권한 부족 에러인지 확인합니다
func IsPermissionDeniedError(err error) bool {
	return isType(err, ErrorTypePermissionDenied)
}

// IsSystemError는 시스템 에러인지 확인합니다
func IsSystemError(err error) bool {
	return isType(err, ErrorTypeSystem)
}

// IsInvalidFormatError는 형식 오류 에러인지 확인합니다
func IsInvalidFormatError(err error) bool {
	return isType(err, ErrorTypeInvalidFormat)
}

// IsNotFoundError는 리소스를 찾을 수 없는 에러인지 확인합니다
func IsNotFoundError(err error) bool {
	return isType(err, ErrorTypeNotFound)
}

// IsUnsupportedPlatformError는 미지원 플랫폼 에러인지 확인합니다
func IsUnsupportedPlatformError(err error) bool {
	return isType(err, ErrorTypeUnsupportedPlatform)
}

// IsTimeoutError는 타임아웃 에러인지 확인합니다
func IsTimeoutError(err error) bool {
	return isType(err, ErrorTypeTimeout)
}
