//go:build linux

package adapters

import (
	"context"

	"github.com/prometheus/procfs"

	"macshift/internal/domain/errors"
	"macshift/internal/domain/interfaces"
)

// ProcfsProcessLister는 /proc에서 실행 중인 프로세스 이름을 읽는 구현체입니다
type ProcfsProcessLister struct{}

// NewProcessLister는 새로운 ProcfsProcessLister를 생성합니다
func NewProcessLister(executor interfaces.CommandExecutor) interfaces.ProcessLister {
	return &ProcfsProcessLister{}
}

// RunningProcessNames는 실행 중인 프로세스의 comm 이름 목록을 반환합니다
func (l *ProcfsProcessLister) RunningProcessNames(ctx context.Context) ([]string, error) {
	procs, err := procfs.AllProcs()
	if err != nil {
		return nil, errors.NewSystemError("failed to list processes from /proc", err)
	}

	names := make([]string, 0, len(procs))
	seen := make(map[string]struct{}, len(procs))
	for _, p := range procs {
		comm, err := p.Comm()
		if err != nil || comm == "" {
			// 조회 도중 종료된 프로세스는 건너뜀
			continue
		}
		if _, ok := seen[comm]; ok {
			continue
		}
		seen[comm] = struct{}{}
		names = append(names, comm)
	}

	return names, nil
}
