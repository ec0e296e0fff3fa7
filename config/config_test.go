package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pricing.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	d := Defaults()
	require.NoError(t, validator.New().Struct(d))
	assert.Equal(t, 100_000, d.MonteCarlo.Samples)
	assert.Equal(t, 4096, d.MonteCarlo.BlockSize)
	assert.True(t, d.MonteCarlo.Antithetic)
	assert.Equal(t, "bigcache", d.Cache.Backend)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
version = "1.2.3"

[log]
level = "debug"

[montecarlo]
samples = 5000
seed = 7
block_size = 1024

[cache]
enabled = true
ttl = "5m"

[cache.redis]
password = "secret"
`)
	t.Setenv("APP_MONTECARLO_WORKERS", "8")

	var cfg Config
	require.NoError(t, Load(path, &cfg))

	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5000, cfg.MonteCarlo.Samples)
	assert.Equal(t, uint64(7), cfg.MonteCarlo.Seed)
	assert.Equal(t, 1024, cfg.MonteCarlo.BlockSize)
	assert.Equal(t, 8, cfg.MonteCarlo.Workers)
	// 未出现在文件中的键取默认值。
	assert.Equal(t, 10_000_000, cfg.MonteCarlo.MaxSamples)
	assert.Equal(t, 1, cfg.MonteCarlo.TimeSteps)
	assert.True(t, cfg.MonteCarlo.Antithetic)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "bigcache", cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "secret", cfg.Cache.Redis.Password)
	assert.Same(t, vInstance, GetViper())
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := writeConfig(t, `
[cache]
backend = "memcached"
`)
	var cfg Config
	err := Load(path, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")

	path = writeConfig(t, `
[tracing]
enabled = true
`)
	assert.Error(t, Load(path, &cfg))
}

func TestLoadMissingFile(t *testing.T) {
	var cfg Config
	err := Load(filepath.Join(t.TempDir(), "absent.toml"), &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config error")
}

func TestMask(t *testing.T) {
	m := map[string]any{
		"cache": map[string]any{
			"redis": map[string]any{
				"Addr":     "localhost:6379",
				"Password": "hunter2",
			},
		},
		"api_token": "abc",
		"version":   "dev",
	}
	mask(m)

	redis := m["cache"].(map[string]any)["redis"].(map[string]any)
	assert.Equal(t, "******", redis["Password"])
	assert.Equal(t, "localhost:6379", redis["Addr"])
	assert.Equal(t, "******", m["api_token"])
	assert.Equal(t, "dev", m["version"])
}

func TestLogConfigLogging(t *testing.T) {
	lc := LogConfig{Level: "warn", File: "/tmp/p.log", MaxSize: 10, Console: true, ConsoleLevel: "error"}.Logging("svc", "pricing")
	assert.Equal(t, "svc", lc.Service)
	assert.Equal(t, "pricing", lc.Module)
	assert.Equal(t, "warn", lc.Level)
	assert.Equal(t, "/tmp/p.log", lc.File)
	assert.Equal(t, 10, lc.MaxSize)
	assert.True(t, lc.Console)
	assert.Equal(t, "error", lc.ConsoleLevel)
}

func TestHotReloadPublishesNewInstance(t *testing.T) {
	path := writeConfig(t, `
[montecarlo]
samples = 1000
`)
	var cfg Config
	require.NoError(t, Load(path, &cfg))

	before := Current()
	require.NotNil(t, before)
	assert.Equal(t, 1000, before.MonteCarlo.Samples)

	reloaded := make(chan *Config, 1)
	RegisterReloadHook(func(c *Config) {
		select {
		case reloaded <- c:
		default:
		}
	})

	require.NoError(t, os.WriteFile(path, []byte(`
[montecarlo]
samples = 2500
`), 0o600))

	assert.Eventually(t, func() bool {
		c := Current()
		return c != nil && c.MonteCarlo.Samples == 2500
	}, 10*time.Second, 50*time.Millisecond)

	select {
	case c := <-reloaded:
		assert.NotNil(t, c)
	case <-time.After(5 * time.Second):
		t.Fatal("reload hook not called")
	}

	// 已取得的实例与首次加载填充的 conf 不被修改。
	assert.Equal(t, 1000, before.MonteCarlo.Samples)
	assert.Equal(t, 1000, cfg.MonteCarlo.Samples)
}
