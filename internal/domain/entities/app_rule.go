package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"macshift/internal/domain/errors"
)

// AppRule은 실행 중인 애플리케이션에 따라 인터페이스의 MAC 주소를
// 재정의하는 규칙입니다. (app_name, interface) 키당 최대 하나만 존재하며,
// 규칙 저장소를 통해서만 변경됩니다.
type AppRule struct {
	AppName     string     `yaml:"app_name" validate:"required"`
	ServiceName string     `yaml:"service_name,omitempty"`
	MacAddress  string     `yaml:"mac_address" validate:"required"`
	Interface   string     `yaml:"interface" validate:"required"`
	Schedule    *Schedule  `yaml:"schedule,omitempty"`
	LastApplied *time.Time `yaml:"last_applied,omitempty"`
	Enabled     bool       `yaml:"enabled"`
}

// Schedule은 규칙이 활성화되는 요일과 시간 창입니다.
// 시각은 호스트 로컬 기준 24시간제 HH:MM이며, start ≤ end만 허용합니다
// (자정을 넘는 창은 지원하지 않습니다).
type Schedule struct {
	Days      []string `yaml:"days" validate:"required,min=1,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime string   `yaml:"start_time" validate:"required"`
	EndTime   string   `yaml:"end_time" validate:"required"`
}

var ruleValidator = validator.New()

// Key는 규칙 저장소에서 사용하는 (app_name, interface) 복합 키를 반환합니다
func (r *AppRule) Key() string {
	return r.AppName + ":" + r.Interface
}

// TargetMac은 규칙의 대상 MAC 주소를 파싱하여 반환합니다
func (r *AppRule) TargetMac() (MacAddress, error) {
	return ParseMac(r.MacAddress)
}

// Validate는 규칙의 유효성을 검증합니다
func (r *AppRule) Validate() error {
	if err := ruleValidator.Struct(r); err != nil {
		return errors.NewValidationError("invalid rule", err)
	}

	if _, err := ParseMac(r.MacAddress); err != nil {
		return err
	}

	if r.Schedule != nil {
		return r.Schedule.Validate()
	}
	return nil
}

// Validate는 스케줄의 유효성을 검증합니다. 요일 이름은 소문자로 정규화되며,
// start > end인 창은 생성 시점에 거부됩니다.
func (s *Schedule) Validate() error {
	for i, day := range s.Days {
		s.Days[i] = strings.ToLower(day)
	}

	if err := ruleValidator.Struct(s); err != nil {
		return errors.NewValidationError("invalid schedule", err)
	}

	start, err := ParseClockTime(s.StartTime)
	if err != nil {
		return err
	}
	end, err := ParseClockTime(s.EndTime)
	if err != nil {
		return err
	}
	if start > end {
		return errors.NewValidationError(
			fmt.Sprintf("schedule start %s is after end %s: overnight windows are not supported", s.StartTime, s.EndTime), nil)
	}
	return nil
}

// ContainsDay는 주어진 요일이 스케줄에 포함되는지 확인합니다 (대소문자 무관)
func (s *Schedule) ContainsDay(day string) bool {
	day = strings.ToLower(day)
	for _, d := range s.Days {
		if strings.ToLower(d) == day {
			return true
		}
	}
	return false
}

// ParseClockTime은 24시간제 "HH:MM" 문자열을 자정 기준 분으로 변환합니다
func ParseClockTime(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, errors.NewValidationError(
			fmt.Sprintf("invalid time %q: expected 24-hour HH:MM", value), err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
