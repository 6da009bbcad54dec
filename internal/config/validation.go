package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate 针对语义级别做进一步校验，防止带着坏配置触网或写缓存。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	if err := validateEndpoint(c.IndexURL); err != nil {
		return fmt.Errorf("IndexURL: %w", err)
	}
	if err := validateEndpoint(c.TemplateURL); err != nil {
		return fmt.Errorf("TemplateURL: %w", err)
	}
	if strings.Count(c.TemplateURL, "%s") != 2 {
		return newFieldError("TemplateURL", "必须包含 category 与包名两个 %s 占位符")
	}
	if c.StoragePath == "" {
		return newFieldError("StoragePath", "不能为空")
	}
	if c.FetchTimeout.DurationValue() <= 0 {
		return newFieldError("FetchTimeout", "必须大于 0")
	}
	if c.LogMaxSize < 0 {
		return newFieldError("LogMaxSize", "不能为负数")
	}
	if c.LogMaxBackups < 0 {
		return newFieldError("LogMaxBackups", "不能为负数")
	}

	return nil
}

func validateEndpoint(raw string) error {
	if raw == "" {
		return errors.New("缺少上游地址")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("仅支持 http/https，上游: %s", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("上游缺少 Host: %s", raw)
	}
	return nil
}
