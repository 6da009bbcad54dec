package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// 内置的 VUR 上游地址，仅作为默认值存在；测试与私有部署通过配置覆盖。
const (
	defaultIndexURL    = "https://vup-linux.github.io/vup/index.json"
	defaultTemplateURL = "https://raw.githubusercontent.com/VUP-Linux/vup/main/vup/srcpkgs/%s/%s/template"
)

// Load 读取并解析 TOML 配置文件，同时注入默认值与校验逻辑。
// path 为空表示使用默认路径（~/.config/vuru/config.toml），此时文件缺失
// 不视为错误，直接以纯默认值运行；显式指定的路径必须存在。
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = defaultConfigPath()
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		notExist := errors.Is(err, fs.ErrNotExist)
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			notExist = true
		}
		if !notExist || explicit {
			return nil, fmt.Errorf("读取配置失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	absStorage, err := filepath.Abs(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("无法解析缓存目录: %w", err)
	}
	cfg.StoragePath = absStorage

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("IndexURL", defaultIndexURL)
	v.SetDefault("TemplateURL", defaultTemplateURL)
	v.SetDefault("StoragePath", defaultStoragePath())
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 10)
	v.SetDefault("LogMaxBackups", 3)
	v.SetDefault("LogCompress", true)
	v.SetDefault("FetchTimeout", "30s")
}

func applyDefaults(cfg *Config) {
	if cfg.StoragePath == "" {
		cfg.StoragePath = defaultStoragePath()
	}
	if cfg.FetchTimeout.DurationValue() == 0 {
		cfg.FetchTimeout = Duration(30 * time.Second)
	}
}

// defaultConfigPath 解析默认配置文件位置，定位失败时返回相对路径兜底。
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "vuru", "config.toml")
}

// defaultStoragePath 解析默认缓存根目录，与原生 XDG 缓存布局保持一致。
func defaultStoragePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "./cache"
	}
	return filepath.Join(dir, "vuru")
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if v == "" {
				return Duration(0), nil
			}
			if parsed, err := time.ParseDuration(v); err == nil {
				return Duration(parsed), nil
			}
			if seconds, err := strconv.ParseFloat(v, 64); err == nil {
				return Duration(time.Duration(seconds * float64(time.Second))), nil
			}
			return nil, fmt.Errorf("无法解析 Duration 字段: %s", v)
		case int:
			return Duration(time.Duration(v) * time.Second), nil
		case int64:
			return Duration(time.Duration(v) * time.Second), nil
		case float64:
			return Duration(time.Duration(v * float64(time.Second))), nil
		case time.Duration:
			return Duration(v), nil
		case Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("不支持的 Duration 类型: %T", v)
		}
	}
}
