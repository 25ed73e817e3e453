package services

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macshift/internal/domain/entities"
)

// fixedClock은 고정된 시각을 반환하는 Clock 구현체입니다
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time        { return c.now }
func (c *fixedClock) Sleep(d time.Duration) {}

// 2024-01-01은 월요일
func mondayAt(hour, minute int) time.Time {
	return time.Date(2024, 1, 1, hour, minute, 0, 0, time.Local)
}

func weekdayRule() entities.AppRule {
	return entities.AppRule{
		AppName:    "firefox",
		MacAddress: "00:11:22:33:44:55",
		Interface:  "eth0",
		Schedule: &entities.Schedule{
			Days:      []string{"monday"},
			StartTime: "09:00",
			EndTime:   "17:00",
		},
		Enabled: true,
	}
}

func TestRuleScheduler_IsActive(t *testing.T) {
	logger := logrus.New()

	tests := []struct {
		name   string
		modify func(*entities.AppRule)
		now    time.Time
		want   bool
	}{
		{
			name: "월요일 12:00에 활성",
			now:  mondayAt(12, 0),
			want: true,
		},
		{
			name: "시작 시각 09:00 경계에서 활성",
			now:  mondayAt(9, 0),
			want: true,
		},
		{
			name: "종료 시각 17:00 경계에서 활성",
			now:  mondayAt(17, 0),
			want: true,
		},
		{
			name: "월요일 08:59에 비활성",
			now:  mondayAt(8, 59),
			want: false,
		},
		{
			name: "월요일 17:01에 비활성",
			now:  mondayAt(17, 1),
			want: false,
		},
		{
			name: "화요일 12:00에 비활성",
			now:  mondayAt(12, 0).AddDate(0, 0, 1),
			want: false,
		},
		{
			name: "비활성화된 규칙은 항상 비활성",
			modify: func(r *entities.AppRule) {
				r.Enabled = false
			},
			now:  mondayAt(12, 0),
			want: false,
		},
		{
			name: "스케줄 없는 활성 규칙은 항상 활성",
			modify: func(r *entities.AppRule) {
				r.Schedule = nil
			},
			now:  mondayAt(3, 0),
			want: true,
		},
		{
			name: "요일 대소문자 무관 비교",
			modify: func(r *entities.AppRule) {
				r.Schedule.Days = []string{"MONDAY"}
			},
			now:  mondayAt(12, 0),
			want: true,
		},
		{
			name: "자정을 넘는 창은 항상 비활성",
			modify: func(r *entities.AppRule) {
				r.Schedule.StartTime = "22:00"
				r.Schedule.EndTime = "06:00"
			},
			now:  mondayAt(23, 0),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := weekdayRule()
			if tt.modify != nil {
				tt.modify(&rule)
			}

			scheduler := NewRuleScheduler(&fixedClock{now: tt.now}, logger)
			assert.Equal(t, tt.want, scheduler.IsActive(&rule, tt.now))
		})
	}
}

func TestRuleScheduler_SelectOverride(t *testing.T) {
	logger := logrus.New()

	rule := func(app, iface, mac string) entities.AppRule {
		return entities.AppRule{
			AppName:    app,
			MacAddress: mac,
			Interface:  iface,
			Enabled:    true,
		}
	}

	tests := []struct {
		name    string
		rules   []entities.AppRule
		running []string
		iface   string
		wantMac string // 빈 문자열이면 nil 기대
	}{
		{
			name: "실행 중인 앱과 일치하는 규칙이 없으면 nil",
			rules: []entities.AppRule{
				rule("firefox", "eth0", "00:11:22:33:44:55"),
			},
			running: []string{"slack", "chrome"},
			iface:   "eth0",
			wantMac: "",
		},
		{
			name: "단일 일치 규칙의 MAC 반환",
			rules: []entities.AppRule{
				rule("firefox", "eth0", "00:11:22:33:44:55"),
			},
			running: []string{"firefox"},
			iface:   "eth0",
			wantMac: "00:11:22:33:44:55",
		},
		{
			name: "복수 일치 시 삽입 순서의 첫 규칙 반환",
			rules: []entities.AppRule{
				rule("firefox", "eth0", "00:11:22:33:44:55"),
				rule("slack", "eth0", "66:77:88:99:aa:bb"),
			},
			running: []string{"slack", "firefox"},
			iface:   "eth0",
			wantMac: "00:11:22:33:44:55",
		},
		{
			name: "다른 인터페이스의 규칙은 제외",
			rules: []entities.AppRule{
				rule("firefox", "wlan0", "00:11:22:33:44:55"),
			},
			running: []string{"firefox"},
			iface:   "eth0",
			wantMac: "",
		},
		{
			name: "비활성 규칙은 건너뛰고 다음 일치 규칙 선택",
			rules: []entities.AppRule{
				func() entities.AppRule {
					r := rule("firefox", "eth0", "00:11:22:33:44:55")
					r.Enabled = false
					return r
				}(),
				rule("slack", "eth0", "66:77:88:99:aa:bb"),
			},
			running: []string{"firefox", "slack"},
			iface:   "eth0",
			wantMac: "66:77:88:99:aa:bb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduler := NewRuleScheduler(&fixedClock{now: mondayAt(12, 0)}, logger)
			selected := scheduler.SelectOverride(tt.iface, tt.rules, tt.running)

			if tt.wantMac == "" {
				assert.Nil(t, selected)
				return
			}

			require.NotNil(t, selected)
			assert.Equal(t, tt.wantMac, selected.MacAddress)
		})
	}
}

func TestRuleScheduler_SelectOverride_ScheduleEvaluated(t *testing.T) {
	logger := logrus.New()
	rule := weekdayRule()

	// 스케줄 창 밖에서는 선택되지 않음
	outside := NewRuleScheduler(&fixedClock{now: mondayAt(8, 0)}, logger)
	assert.Nil(t, outside.SelectOverride("eth0", []entities.AppRule{rule}, []string{"firefox"}))

	// 스케줄 창 안에서는 선택됨
	inside := NewRuleScheduler(&fixedClock{now: mondayAt(12, 0)}, logger)
	assert.NotNil(t, inside.SelectOverride("eth0", []entities.AppRule{rule}, []string{"firefox"}))
}
