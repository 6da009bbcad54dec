package httpclient

import (
	"net"
	"net/http"
	"time"

	"github.com/vup-linux/vuru/internal/config"
)

// Shared HTTP transport tunings，复用长连接并集中配置超时。
var defaultTransport = &http.Transport{
	Proxy:                 http.ProxyFromEnvironment,
	MaxIdleConns:          16,
	MaxIdleConnsPerHost:   4,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ForceAttemptHTTP2:     true,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
}

// New 返回共享 http.Client，索引同步与模板拉取都走同一份实例。
// 超时即规范中唯一的取消机制：超过 FetchTimeout 的请求按获取失败处理。
func New(cfg *config.Config) *http.Client {
	timeout := 30 * time.Second
	if cfg != nil && cfg.FetchTimeout.DurationValue() > 0 {
		timeout = cfg.FetchTimeout.DurationValue()
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: defaultTransport.Clone(),
	}
}
