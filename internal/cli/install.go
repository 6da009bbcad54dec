package cli

import (
	"fmt"

	"github.com/vup-linux/vuru/internal/index"
	"github.com/vup-linux/vuru/internal/logging"
)

// Install 对单个包执行“查索引 → 评审 → 回写基线 → 委托安装”的完整流程。
// 只有用户同意且安装真正继续时才回写模板缓存，被拒绝的内容绝不落盘。
func (a *App) Install(dir *index.Directory, pkg string) error {
	meta, ok := dir.Lookup(pkg)
	if !ok {
		return fmt.Errorf("包 %q 不在 VUR 索引中", pkg)
	}

	fmt.Fprintf(a.out, "在分类 %q 中找到 %s\n", meta.Category, pkg)
	fmt.Fprintln(a.out, "拉取模板以供评审...")

	content, approved, err := a.engine.Review(pkg, meta.Category)
	if err != nil {
		return err
	}
	if !approved {
		fmt.Fprintln(a.out, "用户已取消安装。")
		a.logger.WithFields(logging.PackageFields("install", a.runID, pkg)).
			Info("评审未通过，安装取消")
		return nil
	}

	if err := a.store.WriteTemplate(pkg, content); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "从仓库安装：%s\n", meta.RepoURL)
	if err := a.system.Install(pkg, meta.RepoURL); err != nil {
		return err
	}

	a.logger.WithFields(logging.PackageFields("install", a.runID, pkg)).
		Info("安装完成")
	return nil
}
