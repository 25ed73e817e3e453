package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macshift/internal/infrastructure/adapters"
)

func TestFileConfigLoader_Load(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		envVars   map[string]string
		wantError bool
		validate  func(*testing.T, *Config)
	}{
		{
			name:    "설정 파일 없이 기본값 사용",
			content: "",
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 3, cfg.Change.LinkDownRetries)
				assert.Equal(t, 1*time.Second, cfg.Change.RetryDelay)
				assert.Equal(t, 1*time.Second, cfg.Change.SettleDelay)
				assert.Equal(t, 30*time.Second, cfg.Watch.Interval)
				assert.Equal(t, "8080", cfg.Health.Port)
				assert.Equal(t, "info", cfg.Log.Level)
			},
		},
		{
			name: "TOML 파일로 설정 오버라이드",
			content: `
[change]
link_down_retries = 5
retry_delay = "2s"

[watch]
interval = "10s"

[health]
port = "9090"
`,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5, cfg.Change.LinkDownRetries)
				assert.Equal(t, 2*time.Second, cfg.Change.RetryDelay)
				// 파일에 없는 항목은 기본값 유지
				assert.Equal(t, 1*time.Second, cfg.Change.SettleDelay)
				assert.Equal(t, 10*time.Second, cfg.Watch.Interval)
				assert.Equal(t, "9090", cfg.Health.Port)
			},
		},
		{
			name: "환경 변수가 파일보다 우선",
			content: `
[health]
port = "9090"
`,
			envVars: map[string]string{
				"MACSHIFT_HEALTH_PORT":       "7070",
				"MACSHIFT_WATCH_INTERVAL":    "45s",
				"LOG_LEVEL":                  "debug",
				"MACSHIFT_LINK_DOWN_RETRIES": "7",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "7070", cfg.Health.Port)
				assert.Equal(t, 45*time.Second, cfg.Watch.Interval)
				assert.Equal(t, "debug", cfg.Log.Level)
				assert.Equal(t, 7, cfg.Change.LinkDownRetries)
			},
		},
		{
			name: "잘못된 재시도 횟수 거부",
			content: `
[change]
link_down_retries = 0
`,
			wantError: true,
		},
		{
			name: "잘못된 감시 주기 거부",
			content: `
[watch]
interval = "0s"
`,
			wantError: true,
		},
		{
			name: "백오프 상한이 감시 주기보다 짧으면 거부",
			content: `
[watch]
interval = "1m"

[watch.backoff]
enabled = true
max_interval = "30s"
multiplier = 2.0
`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			fs := adapters.NewRealFileSystem()
			path := filepath.Join(t.TempDir(), "config.toml")
			if tt.content != "" {
				require.NoError(t, fs.WriteFile(path, []byte(tt.content), 0644))
			}

			cfg, err := NewFileConfigLoader(path, fs).Load()

			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestStoreConfig_Paths(t *testing.T) {
	store := StoreConfig{Directory: "/var/lib/macshift"}

	assert.Equal(t, filepath.Join("/var/lib/macshift", "app_rules.yaml"), store.RulesPath())
	assert.Equal(t, filepath.Join("/var/lib/macshift", "baselines"), store.BaselineDir())
	assert.Equal(t, filepath.Join("/var/lib/macshift", "filter.yaml"), store.FilterPath())
	assert.Equal(t, filepath.Join("/var/lib/macshift", "history.yaml"), store.HistoryPath())
	assert.Equal(t, filepath.Join("/var/lib/macshift", "vendors.yaml"), store.VendorPath())
}
