package config

import "testing"

func TestLoadRejectsInvalidDuration(t *testing.T) {
	cfg := `
LogLevel = "info"
StoragePath = "./data"
FetchTimeout = "boom"
`
	path := writeTempConfig(t, cfg)
	if _, err := Load(path); err == nil {
		t.Fatalf("无效 Duration 应失败")
	}
}

func TestLoadAcceptsBareSecondTimeout(t *testing.T) {
	cfg := `
StoragePath = "./data"
FetchTimeout = 5
`
	path := writeTempConfig(t, cfg)
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("纯秒整数应可解析: %v", err)
	}
	if loaded.FetchTimeout.DurationValue().Seconds() != 5 {
		t.Fatalf("FetchTimeout 应为 5s，得到 %v", loaded.FetchTimeout.DurationValue())
	}
}
