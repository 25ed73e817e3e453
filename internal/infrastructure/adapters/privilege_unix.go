//go:build linux || darwin

package adapters

import (
	"golang.org/x/sys/unix"

	"macshift/internal/domain/errors"
	"macshift/internal/domain/interfaces"
)

// RealPrivilegeChecker는 유효 사용자 ID로 루트 권한을 확인하는 구현체입니다
type RealPrivilegeChecker struct{}

// NewRealPrivilegeChecker는 새로운 RealPrivilegeChecker를 생성합니다
func NewRealPrivilegeChecker() interfaces.PrivilegeChecker {
	return &RealPrivilegeChecker{}
}

// CheckElevated는 루트로 실행 중이 아니면 PermissionDenied 에러를 반환합니다
func (c *RealPrivilegeChecker) CheckElevated() error {
	if unix.Geteuid() != 0 {
		return errors.NewPermissionDeniedError("this program must be run with root privileges, use sudo")
	}
	return nil
}
