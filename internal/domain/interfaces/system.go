package interfaces

import (
	"context"
	"os"
	"time"
)

// CommandExecutor는 시스템 명령을 실행하는 인터페이스입니다
type CommandExecutor interface {
	// Execute는 명령을 실행하고 표준 출력을 반환합니다.
	// 실패 시 캡처된 stdout/stderr 전문을 담은 에러를 반환합니다
	Execute(ctx context.Context, command string, args ...string) ([]byte, error)

	// ExecuteWithTimeout은 타임아웃을 적용하여 명령을 실행합니다
	ExecuteWithTimeout(ctx context.Context, timeout time.Duration, command string, args ...string) ([]byte, error)
}

// FileSystem은 파일 시스템 작업을 추상화하는 인터페이스입니다
type FileSystem interface {
	// ReadFile은 파일을 읽습니다
	ReadFile(path string) ([]byte, error)

	// WriteFile은 파일에 데이터를 씁니다
	WriteFile(path string, data []byte, perm os.FileMode) error

	// Exists는 파일이나 디렉토리가 존재하는지 확인합니다
	Exists(path string) bool

	// MkdirAll은 디렉토리를 재귀적으로 생성합니다
	MkdirAll(path string, perm os.FileMode) error

	// Remove는 파일이나 디렉토리를 삭제합니다
	Remove(path string) error

	// ListFiles는 디렉토리의 파일 목록을 반환합니다
	ListFiles(path string) ([]string, error)
}

// Clock은 시간 관련 작업을 추상화하는 인터페이스입니다
type Clock interface {
	// Now는 현재 시간을 반환합니다
	Now() time.Time

	// Sleep은 주어진 시간 동안 블로킹합니다
	Sleep(d time.Duration)
}

// PrivilegeChecker는 호출자가 호스트에 적합한 상승 권한을 가졌는지 확인합니다.
// 전역 상태가 아닌 호출 시점에 주입되는 명시적 전제 조건으로 모델링되어
// 가짜 구현으로 테스트할 수 있습니다.
type PrivilegeChecker interface {
	// CheckElevated는 권한이 부족하면 PermissionDenied 에러를 반환합니다
	CheckElevated() error
}

// ProcessLister는 현재 실행 중인 프로세스 이름 목록을 조회합니다
type ProcessLister interface {
	// RunningProcessNames는 실행 중인 프로세스의 이름 목록을 반환합니다
	RunningProcessNames(ctx context.Context) ([]string, error)
}
