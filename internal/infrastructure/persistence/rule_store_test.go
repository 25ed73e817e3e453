package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macshift/internal/domain/entities"
	domainErrors "macshift/internal/domain/errors"
	"macshift/internal/infrastructure/adapters"
)

func newTestRuleStore(t *testing.T) *YAMLRuleStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app_rules.yaml")
	return NewYAMLRuleStore(path, adapters.NewRealFileSystem())
}

func testRule(app, iface, mac string) entities.AppRule {
	return entities.AppRule{
		AppName:    app,
		MacAddress: mac,
		Interface:  iface,
		Enabled:    true,
	}
}

func TestYAMLRuleStore_AddAndGet(t *testing.T) {
	store := newTestRuleStore(t)

	require.NoError(t, store.Add(testRule("firefox", "eth0", "00:11:22:33:44:55")))

	rule, err := store.Get("firefox", "eth0")
	require.NoError(t, err)
	assert.Equal(t, "firefox", rule.AppName)
	assert.Equal(t, "00:11:22:33:44:55", rule.MacAddress)

	_, err = store.Get("chrome", "eth0")
	assert.True(t, domainErrors.IsNotFoundError(err))
}

func TestYAMLRuleStore_Add_RejectsInvalidRule(t *testing.T) {
	store := newTestRuleStore(t)

	err := store.Add(testRule("firefox", "eth0", "not-a-mac"))
	require.Error(t, err)

	rules, listErr := store.List()
	require.NoError(t, listErr)
	assert.Empty(t, rules)
}

func TestYAMLRuleStore_List_PreservesInsertionOrder(t *testing.T) {
	store := newTestRuleStore(t)

	require.NoError(t, store.Add(testRule("firefox", "eth0", "00:11:22:33:44:55")))
	require.NoError(t, store.Add(testRule("slack", "eth0", "66:77:88:99:aa:bb")))
	require.NoError(t, store.Add(testRule("chrome", "wlan0", "cc:dd:ee:ff:00:11")))

	rules, err := store.List()
	require.NoError(t, err)
	require.Len(t, rules, 3)
	assert.Equal(t, "firefox", rules[0].AppName)
	assert.Equal(t, "slack", rules[1].AppName)
	assert.Equal(t, "chrome", rules[2].AppName)
}

func TestYAMLRuleStore_Add_ReplacesInPlace(t *testing.T) {
	store := newTestRuleStore(t)

	require.NoError(t, store.Add(testRule("firefox", "eth0", "00:11:22:33:44:55")))
	require.NoError(t, store.Add(testRule("slack", "eth0", "66:77:88:99:aa:bb")))

	// 같은 키로 다시 추가하면 위치가 유지된 채 교체되어야 함
	require.NoError(t, store.Add(testRule("firefox", "eth0", "cc:dd:ee:ff:00:11")))

	rules, err := store.List()
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "firefox", rules[0].AppName)
	assert.Equal(t, "cc:dd:ee:ff:00:11", rules[0].MacAddress)
	assert.Equal(t, "slack", rules[1].AppName)
}

func TestYAMLRuleStore_Remove(t *testing.T) {
	store := newTestRuleStore(t)

	require.NoError(t, store.Add(testRule("firefox", "eth0", "00:11:22:33:44:55")))
	require.NoError(t, store.Remove("firefox", "eth0"))

	rules, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, rules)

	err = store.Remove("firefox", "eth0")
	assert.True(t, domainErrors.IsNotFoundError(err))
}

func TestYAMLRuleStore_SetEnabledAndTouchApplied(t *testing.T) {
	store := newTestRuleStore(t)

	require.NoError(t, store.Add(testRule("firefox", "eth0", "00:11:22:33:44:55")))

	require.NoError(t, store.SetEnabled("firefox", "eth0", false))
	rule, err := store.Get("firefox", "eth0")
	require.NoError(t, err)
	assert.False(t, rule.Enabled)

	applied := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.TouchApplied("firefox", "eth0", applied))
	rule, err = store.Get("firefox", "eth0")
	require.NoError(t, err)
	require.NotNil(t, rule.LastApplied)
	assert.True(t, rule.LastApplied.Equal(applied))
}
