package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	indexFile    = "index.json"
	etagFile     = "index.json.etag"
	templateDir  = "templates"
	tempPattern  = ".cache-*"
	filePermMode = 0o644
)

// ErrNotFound 表示缓存不存在。
var ErrNotFound = errors.New("cache entry not found")

// ErrStorageUnavailable 表示缓存根目录无法创建或使用，属于致命错误。
var ErrStorageUnavailable = errors.New("cache storage unavailable")

// ErrTokenWrite 表示 ETag sidecar 写入失败；索引本体已成功落盘，
// 调用方应当记录告警但不回滚整个同步。
var ErrTokenWrite = errors.New("etag sidecar write failed")

// Store 以 basePath 为根目录管理索引与模板缓存，单次调用内复用一份实例。
// 磁盘布局：
//
//	<StoragePath>/index.json        # 序列化索引
//	<StoragePath>/index.json.etag   # 配套的条件请求验证符
//	<StoragePath>/templates/<pkg>   # 最近一次通过评审的模板文本
type Store struct {
	root string
}

// NewStore 构建磁盘缓存，目录不可用时返回 ErrStorageUnavailable。
func NewStore(basePath string) (*Store, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: storage path required", ErrStorageUnavailable)
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve storage path: %v", ErrStorageUnavailable, err)
	}

	if err := os.MkdirAll(filepath.Join(abs, templateDir), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create storage path: %v", ErrStorageUnavailable, err)
	}

	return &Store{root: abs}, nil
}

// ReadIndex 返回缓存的索引字节，不存在时返回 ErrNotFound。
func (s *Store) ReadIndex() ([]byte, error) {
	return s.readFile(filepath.Join(s.root, indexFile))
}

// WriteIndex 原子替换索引本体，并同步更新 ETag sidecar。索引写入失败
// 直接报错；sidecar 的写入/清理失败以 ErrTokenWrite 返回，调用方按
// 尽力而为处理。etag 为空时会移除遗留 sidecar，防止旧验证符与新字节配对。
func (s *Store) WriteIndex(data []byte, etag string) error {
	indexPath := filepath.Join(s.root, indexFile)
	if err := s.writeAtomic(indexPath, data); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	etagPath := filepath.Join(s.root, etagFile)
	if etag == "" {
		if err := os.Remove(etagPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %v", ErrTokenWrite, err)
		}
		return nil
	}
	if err := s.writeAtomic(etagPath, []byte(etag)); err != nil {
		return fmt.Errorf("%w: %v", ErrTokenWrite, err)
	}
	return nil
}

// ReadETag 返回索引配套的验证符。索引本体缺失时即使 sidecar 存在也视为
// 无验证符，避免用没有正文的 ETag 去协商条件请求。
func (s *Store) ReadETag() string {
	if _, err := os.Stat(filepath.Join(s.root, indexFile)); err != nil {
		return ""
	}
	data, err := s.readFile(filepath.Join(s.root, etagFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// ReadTemplate 返回包的最近评审模板，不存在时返回 ErrNotFound。
func (s *Store) ReadTemplate(name string) (string, error) {
	p, err := s.templatePath(name)
	if err != nil {
		return "", err
	}
	data, err := s.readFile(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteTemplate 原子替换包的评审基线文本。
func (s *Store) WriteTemplate(name, content string) error {
	p, err := s.templatePath(name)
	if err != nil {
		return err
	}
	if err := s.writeAtomic(p, []byte(content)); err != nil {
		return fmt.Errorf("write template %s: %w", name, err)
	}
	return nil
}

func (s *Store) readFile(p string) ([]byte, error) {
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, ErrNotFound
	}
	return os.ReadFile(p)
}

// writeAtomic 先写临时文件再 rename，保证并发读方永远看到完整内容。
func (s *Store) writeAtomic(p string, data []byte) error {
	tempFile, err := os.CreateTemp(filepath.Dir(p), tempPattern)
	if err != nil {
		return err
	}
	tempName := tempFile.Name()

	_, err = tempFile.Write(data)
	closeErr := tempFile.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tempName, filePermMode)
	}
	if err != nil {
		os.Remove(tempName)
		return err
	}

	if err := os.Rename(tempName, p); err != nil {
		os.Remove(tempName)
		return err
	}
	return nil
}

// templatePath 校验包名后拼接模板路径。XBPS 包名不含路径分隔符，
// 任何带分隔符或相对引用的 key 一律拒绝，防止越出缓存根目录。
func (s *Store) templatePath(name string) (string, error) {
	if name == "" {
		return "", errors.New("package name required")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid package name: %s", name)
	}

	base := filepath.Join(s.root, templateDir)
	p := filepath.Join(base, name)
	if !strings.HasPrefix(p, base+string(filepath.Separator)) {
		return "", errors.New("invalid cache path")
	}
	return p, nil
}
