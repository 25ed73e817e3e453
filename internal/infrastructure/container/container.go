package container

import (
	"github.com/sirupsen/logrus"

	"macshift/internal/application/usecases"
	"macshift/internal/domain/interfaces"
	"macshift/internal/domain/services"
	"macshift/internal/infrastructure/adapters"
	"macshift/internal/infrastructure/config"
	"macshift/internal/infrastructure/health"
	"macshift/internal/infrastructure/ouidb"
	"macshift/internal/infrastructure/persistence"
	"macshift/internal/infrastructure/platform"
)

// Container는 의존성 주입을 관리하는 컨테이너입니다
type Container struct {
	config *config.Config
	logger *logrus.Logger

	// 인프라스트럭처 어댑터들
	fileSystem      interfaces.FileSystem
	commandExecutor interfaces.CommandExecutor
	clock           interfaces.Clock
	privilege       interfaces.PrivilegeChecker
	processes       interfaces.ProcessLister
	facade          interfaces.PlatformFacade

	// 레포지토리
	rules    interfaces.RuleRepository
	baseline interfaces.BaselineRepository
	filter   interfaces.FilterRepository
	history  interfaces.HistoryRepository
	vendors  interfaces.VendorRepository

	// 서비스들
	healthService *health.HealthService
	scheduler     *services.RuleScheduler
	ouiService    *ouidb.Service

	// 유스케이스
	changeAddressUseCase  *usecases.ChangeAddressUseCase
	restoreAddressUseCase *usecases.RestoreAddressUseCase
	applyRulesUseCase     *usecases.ApplyRulesUseCase
}

// NewContainer는 새로운 Container를 생성합니다
func NewContainer(cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	container := &Container{
		config: cfg,
		logger: logger,
	}

	if err := container.initializeInfrastructure(); err != nil {
		return nil, err
	}

	if err := container.initializeServices(); err != nil {
		return nil, err
	}

	if err := container.initializeUseCases(); err != nil {
		return nil, err
	}

	return container, nil
}

// initializeInfrastructure는 인프라스트럭처 컴포넌트들을 초기화합니다
func (c *Container) initializeInfrastructure() error {
	// 기본 어댑터들 초기화
	c.fileSystem = adapters.NewRealFileSystem()
	c.commandExecutor = adapters.NewRealCommandExecutor()
	c.clock = adapters.NewRealClock()
	c.privilege = adapters.NewRealPrivilegeChecker()
	c.processes = adapters.NewProcessLister(c.commandExecutor)
	c.facade = platform.NewFacade(c.commandExecutor, c.fileSystem, c.config.Change.CommandTimeout, c.logger)

	// 저장소 디렉터리가 없으면 생성
	if err := c.fileSystem.MkdirAll(c.config.Store.Directory, 0755); err != nil {
		return err
	}

	// 레포지토리 초기화
	store := c.config.Store
	c.rules = persistence.NewYAMLRuleStore(store.RulesPath(), c.fileSystem)
	c.baseline = persistence.NewYAMLBaselineStore(store.BaselineDir(), c.fileSystem, c.clock)
	c.filter = persistence.NewYAMLFilterStore(store.FilterPath(), c.fileSystem)
	c.history = persistence.NewYAMLHistoryStore(store.HistoryPath(), c.fileSystem)
	c.vendors = persistence.NewYAMLVendorStore(store.VendorPath(), c.fileSystem)

	return nil
}

// initializeServices는 서비스들을 초기화합니다
func (c *Container) initializeServices() error {
	c.healthService = health.NewHealthService(c.clock, c.logger)
	c.scheduler = services.NewRuleScheduler(c.clock, c.logger)
	c.ouiService = ouidb.NewService(c.vendors, c.logger)
	return nil
}

// initializeUseCases는 유스케이스들을 초기화합니다
func (c *Container) initializeUseCases() error {
	changeConfig := usecases.ChangeAddressConfig{
		LinkDownRetries: c.config.Change.LinkDownRetries,
		RetryDelay:      c.config.Change.RetryDelay,
		SettleDelay:     c.config.Change.SettleDelay,
	}

	c.changeAddressUseCase = usecases.NewChangeAddressUseCase(
		c.facade,
		c.privilege,
		c.baseline,
		c.clock,
		changeConfig,
		c.logger,
	)

	c.restoreAddressUseCase = usecases.NewRestoreAddressUseCase(
		c.baseline,
		c.changeAddressUseCase,
		c.logger,
	)

	c.applyRulesUseCase = usecases.NewApplyRulesUseCase(
		c.rules,
		c.filter,
		c.scheduler,
		c.processes,
		c.facade,
		c.history,
		c.changeAddressUseCase,
		c.clock,
		c.logger,
	)

	return nil
}

// GetConfig는 설정을 반환합니다
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetClock은 시계 어댑터를 반환합니다
func (c *Container) GetClock() interfaces.Clock {
	return c.clock
}

// GetPlatformFacade는 플랫폼 파사드를 반환합니다
func (c *Container) GetPlatformFacade() interfaces.PlatformFacade {
	return c.facade
}

// GetRuleRepository는 규칙 저장소를 반환합니다
func (c *Container) GetRuleRepository() interfaces.RuleRepository {
	return c.rules
}

// GetBaselineRepository는 베이스라인 저장소를 반환합니다
func (c *Container) GetBaselineRepository() interfaces.BaselineRepository {
	return c.baseline
}

// GetFilterRepository는 필터 저장소를 반환합니다
func (c *Container) GetFilterRepository() interfaces.FilterRepository {
	return c.filter
}

// GetHistoryRepository는 이력 저장소를 반환합니다
func (c *Container) GetHistoryRepository() interfaces.HistoryRepository {
	return c.history
}

// GetVendorRepository는 벤더 저장소를 반환합니다
func (c *Container) GetVendorRepository() interfaces.VendorRepository {
	return c.vendors
}

// GetHealthService는 헬스 서비스를 반환합니다
func (c *Container) GetHealthService() *health.HealthService {
	return c.healthService
}

// GetOuiService는 OUI 서비스를 반환합니다
func (c *Container) GetOuiService() *ouidb.Service {
	return c.ouiService
}

// GetChangeAddressUseCase는 MAC 변경 유스케이스를 반환합니다
func (c *Container) GetChangeAddressUseCase() *usecases.ChangeAddressUseCase {
	return c.changeAddressUseCase
}

// GetRestoreAddressUseCase는 MAC 복원 유스케이스를 반환합니다
func (c *Container) GetRestoreAddressUseCase() *usecases.RestoreAddressUseCase {
	return c.restoreAddressUseCase
}

// GetApplyRulesUseCase는 규칙 적용 유스케이스를 반환합니다
func (c *Container) GetApplyRulesUseCase() *usecases.ApplyRulesUseCase {
	return c.applyRulesUseCase
}
