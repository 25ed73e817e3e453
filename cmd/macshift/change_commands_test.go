package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macshift/internal/application/usecases"
	"macshift/internal/domain/entities"
	domainErrors "macshift/internal/domain/errors"
	"macshift/internal/infrastructure/adapters"
	"macshift/internal/infrastructure/container"
	"macshift/internal/infrastructure/persistence"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	return logger
}

// newTestStoreDir는 임시 저장소 디렉토리를 만들고 환경 변수로 연결합니다
func newTestStoreDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MACSHIFT_STORE_DIR", dir)
	return dir
}

func denyPrefix(t *testing.T, dir, prefix string) {
	t.Helper()
	store := persistence.NewYAMLFilterStore(filepath.Join(dir, "filter.yaml"), adapters.NewRealFileSystem())
	require.NoError(t, store.Deny(prefix))
}

func executeCommand(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCommand(newTestLogger())
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	return root.Execute()
}

func newTestContainer(t *testing.T) *container.Container {
	t.Helper()
	c, err := buildContainer("", newTestLogger())
	require.NoError(t, err)
	return c
}

func TestSetCommand_FilterRejectsDeniedMac(t *testing.T) {
	dir := newTestStoreDir(t)
	denyPrefix(t, dir, "00:11:22")

	err := executeCommand(t, "set", "-i", "eth0", "-m", "00:11:22:33:44:55")

	// 차단된 MAC은 변경 시퀀스에 진입하기 전에 거부되어야 함
	require.Error(t, err)
	assert.True(t, domainErrors.IsValidationError(err))
	assert.Contains(t, err.Error(), "prefix filter")
	assert.NotContains(t, err.Error(), "not found")
}

func TestSetCommand_DeniedMacLeavesNoHistory(t *testing.T) {
	dir := newTestStoreDir(t)
	denyPrefix(t, dir, "00:11:22")

	_ = executeCommand(t, "set", "-i", "eth0", "-m", "00:11:22:33:44:55")

	records, err := newTestContainer(t).GetHistoryRepository().List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRandomCommand_FilterRejectsDeniedVendorPrefix(t *testing.T) {
	dir := newTestStoreDir(t)
	denyPrefix(t, dir, "00:16:32")

	err := executeCommand(t, "random", "-i", "eth0", "-v", "00:16:32")

	require.Error(t, err)
	assert.True(t, domainErrors.IsValidationError(err))
	assert.Contains(t, err.Error(), "prefix filter")
}

func TestRestoreCommand_MissingBaselineRecordsFailure(t *testing.T) {
	newTestStoreDir(t)

	err := executeCommand(t, "restore", "-i", "eth0")

	require.Error(t, err)
	assert.True(t, domainErrors.IsValidationError(err))
	assert.Contains(t, err.Error(), "no original MAC address saved")

	records, listErr := newTestContainer(t).GetHistoryRepository().List()
	require.NoError(t, listErr)
	require.Len(t, records, 1)
	assert.Equal(t, "eth0", records[0].Interface)
	assert.Equal(t, entities.ChangeResultFailed, records[0].Result)
	assert.NotEmpty(t, records[0].Error)
}

func TestRestoreCommand_InterfaceAndAllAreExclusive(t *testing.T) {
	newTestStoreDir(t)

	err := executeCommand(t, "restore", "-i", "eth0", "--all")
	require.Error(t, err)
	assert.True(t, domainErrors.IsValidationError(err))

	err = executeCommand(t, "restore")
	require.Error(t, err)
	assert.True(t, domainErrors.IsValidationError(err))
}

func TestRestoreCommand_AllWithoutBaselines(t *testing.T) {
	newTestStoreDir(t)

	err := executeCommand(t, "restore", "--all")
	assert.NoError(t, err)
}

func TestAppendChangeHistory(t *testing.T) {
	newTestStoreDir(t)
	c := newTestContainer(t)
	logger := newTestLogger()

	previous, err := entities.ParseMac("00:11:22:33:44:55")
	require.NoError(t, err)
	applied, err := entities.ParseMac("02:11:22:33:44:55")
	require.NoError(t, err)

	t.Run("성공한 변경을 기록한다", func(t *testing.T) {
		appendChangeHistory(c, logger, "eth0", applied.String(), true, &usecases.ChangeAddressOutput{
			AppliedMac:         applied,
			PreviousMac:        previous,
			PersistenceHonored: true,
		}, nil)

		records, err := c.GetHistoryRepository().List()
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, entities.ChangeResultSuccess, records[0].Result)
		assert.Equal(t, previous.String(), records[0].PreviousMac)
		assert.Equal(t, applied.String(), records[0].AppliedMac)
		assert.True(t, records[0].PermanentRequested)
		assert.True(t, records[0].PersistenceHonored)
	})

	t.Run("실패한 변경을 기록한다", func(t *testing.T) {
		appendChangeHistory(c, logger, "eth0", applied.String(), false, nil, assert.AnError)

		records, err := c.GetHistoryRepository().List()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, entities.ChangeResultFailed, records[1].Result)
		assert.Equal(t, assert.AnError.Error(), records[1].Error)
	})
}
