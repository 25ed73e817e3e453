package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"macshift/internal/domain/entities"
	"macshift/internal/domain/interfaces"
	"macshift/internal/domain/services"
)

type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) Add(rule entities.AppRule) error {
	args := m.Called(rule)
	return args.Error(0)
}

func (m *MockRuleRepository) Remove(appName, ifaceName string) error {
	args := m.Called(appName, ifaceName)
	return args.Error(0)
}

func (m *MockRuleRepository) Get(appName, ifaceName string) (*entities.AppRule, error) {
	args := m.Called(appName, ifaceName)
	return args.Get(0).(*entities.AppRule), args.Error(1)
}

func (m *MockRuleRepository) List() ([]entities.AppRule, error) {
	args := m.Called()
	return args.Get(0).([]entities.AppRule), args.Error(1)
}

func (m *MockRuleRepository) SetEnabled(appName, ifaceName string, enabled bool) error {
	args := m.Called(appName, ifaceName, enabled)
	return args.Error(0)
}

func (m *MockRuleRepository) TouchApplied(appName, ifaceName string, at time.Time) error {
	args := m.Called(appName, ifaceName, at)
	return args.Error(0)
}

type MockFilterRepository struct {
	mock.Mock
}

func (m *MockFilterRepository) Allow(prefix string) error {
	args := m.Called(prefix)
	return args.Error(0)
}

func (m *MockFilterRepository) Deny(prefix string) error {
	args := m.Called(prefix)
	return args.Error(0)
}

func (m *MockFilterRepository) IsAllowed(mac entities.MacAddress) (bool, error) {
	args := m.Called(mac)
	return args.Bool(0), args.Error(1)
}

func (m *MockFilterRepository) List() ([]string, []string, error) {
	args := m.Called()
	return args.Get(0).([]string), args.Get(1).([]string), args.Error(2)
}

type MockProcessLister struct {
	mock.Mock
}

func (m *MockProcessLister) RunningProcessNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Append(record entities.ChangeRecord) error {
	args := m.Called(record)
	return args.Error(0)
}

func (m *MockHistoryRepository) List() ([]entities.ChangeRecord, error) {
	args := m.Called()
	return args.Get(0).([]entities.ChangeRecord), args.Error(1)
}

type applyRulesFixture struct {
	rules     *MockRuleRepository
	filter    *MockFilterRepository
	processes *MockProcessLister
	facade    *MockPlatformFacade
	history   *MockHistoryRepository
	privilege *MockPrivilegeChecker
	baseline  *MockBaselineRepository
	clock     *testClock
	useCase   *ApplyRulesUseCase
}

func newApplyRulesFixture() *applyRulesFixture {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)

	f := &applyRulesFixture{
		rules:     new(MockRuleRepository),
		filter:    new(MockFilterRepository),
		processes: new(MockProcessLister),
		facade:    new(MockPlatformFacade),
		history:   new(MockHistoryRepository),
		privilege: new(MockPrivilegeChecker),
		baseline:  new(MockBaselineRepository),
		clock:     &testClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
	}

	changer := NewChangeAddressUseCase(
		f.facade, f.privilege, f.baseline, f.clock, DefaultChangeAddressConfig, logger)
	scheduler := services.NewRuleScheduler(f.clock, logger)

	f.useCase = NewApplyRulesUseCase(
		f.rules, f.filter, scheduler, f.processes, f.facade, f.history, changer, f.clock, logger)
	return f
}

// expectFullChange는 오케스트레이터의 성공 경로 전체를 목으로 설정합니다
func (f *applyRulesFixture) expectFullChange(t *testing.T, ifaceName, oldMac, newMac string) {
	target := testMac(t, newMac)

	f.privilege.On("CheckElevated").Return(nil)
	f.facade.On("EnumerateInterfaces", mock.Anything).
		Return([]entities.NetworkInterface{changeableInterface(ifaceName)}, nil)
	f.baseline.On("Get", ifaceName).Return(testMac(t, oldMac), true, nil)
	f.facade.On("DrainNetworkService", mock.Anything).Return(nil)
	f.facade.On("SetLinkState", mock.Anything, ifaceName, interfaces.LinkStateDown).Return(nil)
	f.facade.On("SetAddress", mock.Anything, ifaceName, target).Return(nil)
	f.facade.On("SetLinkState", mock.Anything, ifaceName, interfaces.LinkStateUp).Return(nil)
	f.facade.On("RestoreNetworkService", mock.Anything).Return(nil)
}

func TestApplyRulesUseCase_Execute(t *testing.T) {
	oldMac := "00:11:22:33:44:55"
	newMac := "66:77:88:99:AA:BB"

	enabledRule := func(app, iface, mac string) entities.AppRule {
		return entities.AppRule{AppName: app, MacAddress: mac, Interface: iface, Enabled: true}
	}

	t.Run("규칙이 없으면 아무것도 하지 않음", func(t *testing.T) {
		f := newApplyRulesFixture()
		f.rules.On("List").Return([]entities.AppRule{}, nil)

		output, err := f.useCase.Execute(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 0, output.MatchedCount)
		f.processes.AssertNotCalled(t, "RunningProcessNames", mock.Anything)
	})

	t.Run("실행 중인 앱과 일치하는 규칙을 적용", func(t *testing.T) {
		f := newApplyRulesFixture()
		target := testMac(t, newMac)

		f.rules.On("List").Return([]entities.AppRule{enabledRule("firefox", "eth0", newMac)}, nil)
		f.processes.On("RunningProcessNames", mock.Anything).Return([]string{"bash", "firefox"}, nil)
		f.filter.On("IsAllowed", target).Return(true, nil)
		// 현재 주소는 규칙과 다름
		f.facade.On("GetAddress", mock.Anything, "eth0").Return(testMac(t, oldMac), nil).Twice()
		f.expectFullChange(t, "eth0", oldMac, newMac)
		f.facade.On("GetAddress", mock.Anything, "eth0").Return(target, nil).Once()
		f.rules.On("TouchApplied", "firefox", "eth0", mock.Anything).Return(nil)
		f.history.On("Append", mock.MatchedBy(func(r entities.ChangeRecord) bool {
			return r.Result == entities.ChangeResultSuccess && r.Interface == "eth0"
		})).Return(nil)

		output, err := f.useCase.Execute(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, output.MatchedCount)
		assert.Equal(t, 1, output.AppliedCount)
		assert.Equal(t, 0, output.FailedCount)
		f.history.AssertExpectations(t)
		f.rules.AssertExpectations(t)
	})

	t.Run("실행 중이 아닌 앱의 규칙은 선택되지 않음", func(t *testing.T) {
		f := newApplyRulesFixture()

		f.rules.On("List").Return([]entities.AppRule{enabledRule("firefox", "eth0", newMac)}, nil)
		f.processes.On("RunningProcessNames", mock.Anything).Return([]string{"bash"}, nil)

		output, err := f.useCase.Execute(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 0, output.MatchedCount)
		f.facade.AssertNotCalled(t, "SetAddress", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("필터에서 거부된 MAC은 오케스트레이터에 도달하지 않음", func(t *testing.T) {
		f := newApplyRulesFixture()
		target := testMac(t, newMac)

		f.rules.On("List").Return([]entities.AppRule{enabledRule("firefox", "eth0", newMac)}, nil)
		f.processes.On("RunningProcessNames", mock.Anything).Return([]string{"firefox"}, nil)
		f.filter.On("IsAllowed", target).Return(false, nil)

		output, err := f.useCase.Execute(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, output.MatchedCount)
		assert.Equal(t, 1, output.SkippedCount)
		assert.Equal(t, 0, output.AppliedCount)
		f.facade.AssertNotCalled(t, "SetLinkState", mock.Anything, mock.Anything, mock.Anything)
		f.facade.AssertNotCalled(t, "SetAddress", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("현재 주소가 이미 규칙과 같으면 건너뜀", func(t *testing.T) {
		f := newApplyRulesFixture()
		target := testMac(t, newMac)

		f.rules.On("List").Return([]entities.AppRule{enabledRule("firefox", "eth0", newMac)}, nil)
		f.processes.On("RunningProcessNames", mock.Anything).Return([]string{"firefox"}, nil)
		f.filter.On("IsAllowed", target).Return(true, nil)
		f.facade.On("GetAddress", mock.Anything, "eth0").Return(target, nil).Once()

		output, err := f.useCase.Execute(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, output.SkippedCount)
		f.facade.AssertNotCalled(t, "SetAddress", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("같은 인터페이스에 규칙이 여럿이면 먼저 저장된 규칙이 이김", func(t *testing.T) {
		f := newApplyRulesFixture()
		firstMac := newMac
		secondMac := "AA:BB:CC:DD:EE:FF"
		target := testMac(t, firstMac)

		f.rules.On("List").Return([]entities.AppRule{
			enabledRule("firefox", "eth0", firstMac),
			enabledRule("slack", "eth0", secondMac),
		}, nil)
		// 두 앱 모두 실행 중
		f.processes.On("RunningProcessNames", mock.Anything).Return([]string{"firefox", "slack"}, nil)
		f.filter.On("IsAllowed", target).Return(true, nil)
		f.facade.On("GetAddress", mock.Anything, "eth0").Return(target, nil).Once()

		output, err := f.useCase.Execute(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, output.MatchedCount)
		// firefox 규칙의 MAC만 평가되었는지 확인
		f.filter.AssertNotCalled(t, "IsAllowed", testMac(t, secondMac))
	})

	t.Run("변경 실패 시 실패 이력을 남김", func(t *testing.T) {
		f := newApplyRulesFixture()
		target := testMac(t, newMac)

		f.rules.On("List").Return([]entities.AppRule{enabledRule("firefox", "eth0", newMac)}, nil)
		f.processes.On("RunningProcessNames", mock.Anything).Return([]string{"firefox"}, nil)
		f.filter.On("IsAllowed", target).Return(true, nil)
		f.facade.On("GetAddress", mock.Anything, "eth0").Return(testMac(t, oldMac), nil)
		// 오케스트레이터는 권한 확인 단계에서 실패
		f.privilege.On("CheckElevated").
			Return(assert.AnError)

		f.history.On("Append", mock.MatchedBy(func(r entities.ChangeRecord) bool {
			return r.Result == entities.ChangeResultFailed && r.Error != ""
		})).Return(nil)

		output, err := f.useCase.Execute(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, output.FailedCount)
		f.history.AssertExpectations(t)
	})
}
