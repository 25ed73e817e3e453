package entities

import "time"

// ChangeResult는 변경 시도의 최종 결과입니다
type ChangeResult string

const (
	ChangeResultSuccess ChangeResult = "success"
	ChangeResultFailed  ChangeResult = "failed"
)

// ChangeRecord는 이력 로그에 기록되는 적용 완료된 변경 결과입니다
type ChangeRecord struct {
	Interface          string       `yaml:"interface"`
	PreviousMac        string       `yaml:"previous_mac,omitempty"`
	AppliedMac         string       `yaml:"applied_mac"`
	Result             ChangeResult `yaml:"result"`
	Error              string       `yaml:"error,omitempty"`
	PermanentRequested bool         `yaml:"permanent_requested"`
	PersistenceHonored bool         `yaml:"persistence_honored"`
	Timestamp          time.Time    `yaml:"timestamp"`
}
