// Package config 提供了定价库统一的配置加载与管理能力（viper + validator，支持热更新）。
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wyfcoding/pricing/logging"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config 全局顶级配置结构.
type Config struct {
	Version    string           `mapstructure:"version"    toml:"version"`
	Log        LogConfig        `mapstructure:"log"        toml:"log"`
	Metrics    MetricsConfig    `mapstructure:"metrics"    toml:"metrics"`
	Tracing    TracingConfig    `mapstructure:"tracing"    toml:"tracing"`
	MonteCarlo MonteCarloConfig `mapstructure:"montecarlo" toml:"montecarlo"`
	Cache      CacheConfig      `mapstructure:"cache"      toml:"cache"`
}

// LogConfig 定义日志输出、级别与切割策略.
type LogConfig struct {
	Level      string `mapstructure:"level"       toml:"level"       validate:"omitempty,oneof=debug info warn error"`
	File       string `mapstructure:"file"        toml:"file"`        // 日志文件路径。
	MaxSize    int    `mapstructure:"max_size"    toml:"max_size"`    // 单个文件最大大小 (MB)。
	MaxBackups int    `mapstructure:"max_backups" toml:"max_backups"` // 最大备份数。
	MaxAge     int    `mapstructure:"max_age"     toml:"max_age"`     // 最大保留天数。
	Compress   bool   `mapstructure:"compress"    toml:"compress"`
	Console    bool   `mapstructure:"console"     toml:"console"`
	// 控制台最低级别，为空时与 Level 一致。
	ConsoleLevel string `mapstructure:"console_level" toml:"console_level" validate:"omitempty,oneof=debug info warn error"`
}

// Logging 转换为 logging.Config。
func (c LogConfig) Logging(service, module string) logging.Config {
	return logging.Config{
		Service:      service,
		Module:       module,
		Level:        c.Level,
		File:         c.File,
		MaxSize:      c.MaxSize,
		MaxBackups:   c.MaxBackups,
		MaxAge:       c.MaxAge,
		Compress:     c.Compress,
		Console:      c.Console,
		ConsoleLevel: c.ConsoleLevel,
	}
}

// TracingConfig 链路追踪（OpenTelemetry）配置.
type TracingConfig struct {
	ServiceName  string  `mapstructure:"service_name"  toml:"service_name"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint" toml:"otlp_endpoint" validate:"required_if=Enabled true"`
	SamplerRatio float64 `mapstructure:"sampler_ratio" toml:"sampler_ratio" validate:"gte=0,lte=1"`
	Enabled      bool    `mapstructure:"enabled"       toml:"enabled"`
}

// MetricsConfig 普罗米修斯监控指标配置.
type MetricsConfig struct {
	Namespace string `mapstructure:"namespace" toml:"namespace"`
	Enabled   bool   `mapstructure:"enabled"   toml:"enabled"`
}

// MonteCarloConfig 蒙特卡洛引擎的采样参数.
// Samples 与 Tolerance 二选一：Tolerance > 0 时按目标标准误停止，否则按固定样本数。
type MonteCarloConfig struct {
	Samples    int     `mapstructure:"samples"     toml:"samples"     validate:"gte=0"`
	MaxSamples int     `mapstructure:"max_samples" toml:"max_samples" validate:"gte=0"`
	Tolerance  float64 `mapstructure:"tolerance"   toml:"tolerance"   validate:"gte=0"`
	Seed       uint64  `mapstructure:"seed"        toml:"seed"`
	TimeSteps  int     `mapstructure:"time_steps"  toml:"time_steps"  validate:"gte=1"`
	Workers    int     `mapstructure:"workers"     toml:"workers"     validate:"gte=0"`
	BlockSize  int     `mapstructure:"block_size"  toml:"block_size"  validate:"gte=1"`
	Antithetic bool    `mapstructure:"antithetic"  toml:"antithetic"`
}

// CacheConfig 定价结果缓存配置.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled" toml:"enabled"`
	Backend string        `mapstructure:"backend" toml:"backend" validate:"omitempty,oneof=bigcache redis"`
	Prefix  string        `mapstructure:"prefix"  toml:"prefix"`
	TTL     time.Duration `mapstructure:"ttl"     toml:"ttl"`
	MaxMB   int           `mapstructure:"max_mb"  toml:"max_mb"  validate:"gte=0"`
	Redis   RedisConfig   `mapstructure:"redis"   toml:"redis"`
}

// RedisConfig 定义 Redis 连接参数.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"          toml:"addr"`
	Password     string        `mapstructure:"password"      toml:"password"`
	DB           int           `mapstructure:"db"            toml:"db"`
	PoolSize     int           `mapstructure:"pool_size"     toml:"pool_size"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"  toml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" toml:"write_timeout"`
}

// Defaults 返回一份可直接使用的默认配置。
func Defaults() *Config {
	return &Config{
		Version: "dev",
		Log:     LogConfig{Level: "info"},
		MonteCarlo: MonteCarloConfig{
			Samples:    100_000,
			MaxSamples: 10_000_000,
			TimeSteps:  1,
			Workers:    1,
			BlockSize:  4096,
			Antithetic: true,
			Seed:       42,
		},
		Cache: CacheConfig{
			Backend: "bigcache",
			Prefix:  "pricing",
			TTL:     10 * time.Minute,
			MaxMB:   64,
		},
	}
}

var (
	vInstance = viper.New()
	hooksMu   sync.Mutex
	onReload  []func(*Config)
	current   atomic.Pointer[Config]
)

// Current 返回最近一次成功加载或热更新后的配置；尚未加载时返回 nil。
// 热更新发布的是新实例，已取得的 *Config 不会被并发修改。
func Current() *Config {
	return current.Load()
}

// RegisterReloadHook 注册配置热更新回调，回调收到的是新发布的配置实例。
func RegisterReloadHook(hook func(*Config)) {
	if hook == nil {
		return
	}
	hooksMu.Lock()
	defer hooksMu.Unlock()
	onReload = append(onReload, hook)
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("version", d.Version)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("montecarlo.samples", d.MonteCarlo.Samples)
	v.SetDefault("montecarlo.max_samples", d.MonteCarlo.MaxSamples)
	v.SetDefault("montecarlo.time_steps", d.MonteCarlo.TimeSteps)
	v.SetDefault("montecarlo.workers", d.MonteCarlo.Workers)
	v.SetDefault("montecarlo.block_size", d.MonteCarlo.BlockSize)
	v.SetDefault("montecarlo.antithetic", d.MonteCarlo.Antithetic)
	v.SetDefault("montecarlo.seed", d.MonteCarlo.Seed)
	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.prefix", d.Cache.Prefix)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.max_mb", d.Cache.MaxMB)
}

// Load 加载 TOML 配置，支持 APP_ 前缀环境变量覆盖，并监听文件变更。
// conf 只在首次加载时填充；之后的变更通过 Current 与热更新回调发布。
func Load(path string, conf *Config) error {
	vInstance.SetConfigFile(path)
	vInstance.SetConfigType("toml")

	vInstance.SetEnvPrefix("APP")
	vInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vInstance.AutomaticEnv()
	setDefaults(vInstance)

	if err := vInstance.ReadInConfig(); err != nil {
		return fmt.Errorf("read config error: %w", err)
	}

	if err := vInstance.Unmarshal(conf); err != nil {
		return fmt.Errorf("unmarshal config error: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(conf); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	loaded := *conf
	current.Store(&loaded)

	vInstance.WatchConfig()
	vInstance.OnConfigChange(func(event fsnotify.Event) {
		slog.Info("detecting config change", "file", event.Name)
		const debounceTimeout = 500 * time.Millisecond
		time.Sleep(debounceTimeout)

		next := &Config{}
		if err := vInstance.Unmarshal(next); err != nil {
			slog.Error("reload config unmarshal failed", "error", err)
			return
		}
		if err := validate.Struct(next); err != nil {
			slog.Error("reload config validation failed", "error", err)
			return
		}

		current.Store(next)
		logging.SetLevel(next.Log.Level)
		slog.Info("config hot-reloaded and validated successfully")

		hooksMu.Lock()
		hooks := append([]func(*Config){}, onReload...)
		hooksMu.Unlock()
		for _, hook := range hooks {
			hook(next)
		}
	})

	return nil
}

// PrintWithMask 脱敏打印当前配置.
func PrintWithMask(conf any) {
	data, err := json.Marshal(conf)
	if err != nil {
		slog.Error("failed to marshal config for printing", "error", err)
		return
	}

	var configMap map[string]any
	if err := json.Unmarshal(data, &configMap); err != nil {
		slog.Error("failed to unmarshal config for masking", "error", err)
		return
	}

	mask(configMap)

	maskedJSON, err := json.MarshalIndent(configMap, "  ", "  ")
	if err != nil {
		slog.Error("failed to marshal masked config", "error", err)
		return
	}

	slog.Info("Current effective configuration", "config", string(maskedJSON))
}

func mask(configMap map[string]any) {
	sensitiveKeys := []string{"password", "secret", "token"}

	for key, val := range configMap {
		if subMap, ok := val.(map[string]any); ok {
			mask(subMap)
			continue
		}

		for _, sensitiveKey := range sensitiveKeys {
			if strings.Contains(strings.ToLower(key), sensitiveKey) {
				configMap[key] = "******"
				break
			}
		}
	}
}

// GetViper 返回底层的 Viper 实例.
func GetViper() *viper.Viper {
	return vInstance
}
