package xbps

import (
	"fmt"
	"sort"

	"github.com/vup-linux/vuru/internal/index"
)

// Update 描述一个待升级包：当前已装版本与索引中的目标版本。
type Update struct {
	Name        string
	FromVersion string
	ToVersion   string
	RepoURL     string
}

// Plan 把已安装包与目录快照对齐，借助外部比较器挑出索引版本更新的包，
// 结果按包名排序保证可复现。不在目录中的已安装包不属于 VUR，直接忽略。
func Plan(dir *index.Directory, sys System) ([]Update, error) {
	installed, err := sys.ListInstalled()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(installed))
	for name := range installed {
		names = append(names, name)
	}
	sort.Strings(names)

	var updates []Update
	for _, name := range names {
		meta, ok := dir.Lookup(name)
		if !ok {
			continue
		}

		current := installed[name]
		cmp, err := sys.CompareVersions(meta.Version, current)
		if err != nil {
			return nil, fmt.Errorf("compare %s: %w", name, err)
		}
		if cmp > 0 {
			updates = append(updates, Update{
				Name:        name,
				FromVersion: current,
				ToVersion:   meta.Version,
				RepoURL:     meta.RepoURL,
			})
		}
	}
	return updates, nil
}
