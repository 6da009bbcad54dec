package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrCorrupt 表示索引字节无法解码成合法的包目录，与“不存在”语义区分。
var ErrCorrupt = errors.New("index payload corrupt")

// Metadata 描述单个包的安装元数据，解码后只读。
type Metadata struct {
	Category string `json:"category"`
	Version  string `json:"version"`
	RepoURL  string `json:"repo_url"`
}

// Entry 是搜索结果的一行：包名 + 元数据。
type Entry struct {
	Name string
	Meta Metadata
}

// Directory 是一次同步解码出的完整包目录快照，构建后不再修改；
// 新一轮同步产出新快照整体替换旧值。
type Directory struct {
	packages map[string]Metadata
}

// Decode 原子解码索引载荷：要么得到完整目录，要么返回 ErrCorrupt，
// 绝不把解析到一半的内容合并进目录。顶层必须是 JSON 对象。
func Decode(data []byte) (*Directory, error) {
	var packages map[string]Metadata
	if err := json.Unmarshal(data, &packages); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if packages == nil {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrCorrupt)
	}
	return &Directory{packages: packages}, nil
}

// Lookup 精确查找包名。
func (d *Directory) Lookup(name string) (Metadata, bool) {
	meta, ok := d.packages[name]
	return meta, ok
}

// Search 返回包名包含 query 子串的全部条目，按包名字典序排列；
// 空串匹配所有包。
func (d *Directory) Search(query string) []Entry {
	var results []Entry
	for name, meta := range d.packages {
		if strings.Contains(name, query) {
			results = append(results, Entry{Name: name, Meta: meta})
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})
	return results
}

// Names 返回全部包名的字典序列表，供 shell 补全使用。
func (d *Directory) Names() []string {
	names := make([]string, 0, len(d.packages))
	for name := range d.packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len 返回目录内的包数量。
func (d *Directory) Len() int {
	return len(d.packages)
}
