//go:build windows

package adapters

import (
	"context"
	"encoding/csv"
	"strings"

	"macshift/internal/domain/interfaces"
)

// TasklistProcessLister는 tasklist 명령으로 실행 중인 프로세스 이름을 조회하는 구현체입니다
type TasklistProcessLister struct {
	executor interfaces.CommandExecutor
}

// NewProcessLister는 새로운 TasklistProcessLister를 생성합니다
func NewProcessLister(executor interfaces.CommandExecutor) interfaces.ProcessLister {
	return &TasklistProcessLister{executor: executor}
}

// RunningProcessNames는 실행 중인 프로세스의 이름 목록을 반환합니다
func (l *TasklistProcessLister) RunningProcessNames(ctx context.Context) ([]string, error) {
	output, err := l.executor.Execute(ctx, "tasklist", "/fo", "csv", "/nh")
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(string(output)))
	reader.FieldsPerRecord = -1

	var names []string
	seen := make(map[string]struct{})
	for {
		record, err := reader.Read()
		if err != nil {
			break
		}
		if len(record) == 0 || record[0] == "" {
			continue
		}
		name := strings.TrimSuffix(record[0], ".exe")
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	return names, nil
}
