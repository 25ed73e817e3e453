//go:build windows

package adapters

import (
	"golang.org/x/sys/windows"

	"macshift/internal/domain/errors"
	"macshift/internal/domain/interfaces"
)

// RealPrivilegeChecker는 프로세스 토큰으로 관리자 권한을 확인하는 구현체입니다
type RealPrivilegeChecker struct{}

// NewRealPrivilegeChecker는 새로운 RealPrivilegeChecker를 생성합니다
func NewRealPrivilegeChecker() interfaces.PrivilegeChecker {
	return &RealPrivilegeChecker{}
}

// CheckElevated는 관리자 권한으로 실행 중이 아니면 PermissionDenied 에러를 반환합니다
func (c *RealPrivilegeChecker) CheckElevated() error {
	if !windows.GetCurrentProcessToken().IsElevated() {
		return errors.NewPermissionDeniedError("this program must be run with administrator privileges")
	}
	return nil
}
