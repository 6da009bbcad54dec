package config

import (
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(testConfigPath(t, "valid.toml"))
	if err != nil {
		t.Fatalf("Load 返回错误: %v", err)
	}
	if cfg.IndexURL == "" {
		t.Fatalf("IndexURL 应当被解析")
	}
	if cfg.FetchTimeout.DurationValue() != 10*time.Second {
		t.Fatalf("FetchTimeout 应为 10s，得到 %v", cfg.FetchTimeout.DurationValue())
	}
	if cfg.StoragePath == "" {
		t.Fatalf("StoragePath 应该被保留")
	}
	if cfg.LogMaxSize == 0 {
		t.Fatalf("LogMaxSize 应该自动填充默认值")
	}
}

func TestLoadMissingDefaultFileFallsBack(t *testing.T) {
	// path 为空走默认路径；在干净 HOME 下文件不存在，应以纯默认值成功。
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_CACHE_HOME", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("默认配置缺失不应报错: %v", err)
	}
	if cfg.IndexURL != defaultIndexURL {
		t.Fatalf("应使用内置 IndexURL，得到 %s", cfg.IndexURL)
	}
	if cfg.FetchTimeout.DurationValue() != 30*time.Second {
		t.Fatalf("FetchTimeout 默认值应为 30s")
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(testConfigPath(t, "no-such.toml")); err == nil {
		t.Fatalf("显式指定的配置文件缺失时应报错")
	}
}

func TestValidateRejectsBadScheme(t *testing.T) {
	if _, err := Load(testConfigPath(t, "invalid.toml")); err == nil {
		t.Fatalf("非 http/https 的 IndexURL 应报错")
	}
}

func TestValidateTemplatePlaceholders(t *testing.T) {
	cfg := validConfig()
	cfg.TemplateURL = "https://example.com/template"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("缺少占位符的 TemplateURL 应报错")
	}
}

func TestValidateRejectsZeroTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.FetchTimeout = Duration(0)
	if err := cfg.Validate(); err == nil {
		t.Fatalf("FetchTimeout 为 0 时应报错")
	}
}

func validConfig() *Config {
	return &Config{
		IndexURL:     "https://example.com/index.json",
		TemplateURL:  "https://example.com/srcpkgs/%s/%s/template",
		StoragePath:  "./data",
		LogLevel:     "info",
		FetchTimeout: Duration(time.Second),
	}
}
