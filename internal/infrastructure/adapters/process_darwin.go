//go:build darwin

package adapters

import (
	"context"
	"path/filepath"
	"strings"

	"macshift/internal/domain/interfaces"
)

// PsProcessLister는 ps 명령으로 실행 중인 프로세스 이름을 조회하는 구현체입니다
type PsProcessLister struct {
	executor interfaces.CommandExecutor
}

// NewProcessLister는 새로운 PsProcessLister를 생성합니다
func NewProcessLister(executor interfaces.CommandExecutor) interfaces.ProcessLister {
	return &PsProcessLister{executor: executor}
}

// RunningProcessNames는 실행 중인 프로세스의 이름 목록을 반환합니다
func (l *PsProcessLister) RunningProcessNames(ctx context.Context) ([]string, error) {
	output, err := l.executor.Execute(ctx, "ps", "-axo", "comm=")
	if err != nil {
		return nil, err
	}

	var names []string
	seen := make(map[string]struct{})
	for _, line := range strings.Split(string(output), "\n") {
		name := filepath.Base(strings.TrimSpace(line))
		if name == "" || name == "." {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	return names, nil
}
