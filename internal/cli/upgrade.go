package cli

import (
	"fmt"

	"github.com/vup-linux/vuru/internal/index"
	"github.com/vup-linux/vuru/internal/logging"
	"github.com/vup-linux/vuru/internal/xbps"
)

// UpgradeAll 升级目录中版本更新的全部已安装包。与显式安装不同，
// 批量升级对单个包的失败只记录并继续，保证一轮升级尽量完成。
func (a *App) UpgradeAll(dir *index.Directory) error {
	fmt.Fprintln(a.out, "正在检查更新...")

	updates, err := xbps.Plan(dir, a.system)
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		fmt.Fprintln(a.out, "所有 VUR 包均为最新。")
		return nil
	}

	fmt.Fprintf(a.out, "发现 %d 个更新。\n", len(updates))
	for _, u := range updates {
		fmt.Fprintf(a.out, "更新 %s：%s -> %s\n", u.Name, u.FromVersion, u.ToVersion)
		if err := a.system.Install(u.Name, u.RepoURL); err != nil {
			fmt.Fprintf(a.errOut, "更新 %s 失败: %v\n", u.Name, err)
			a.logger.WithFields(logging.PackageFields("upgrade", a.runID, u.Name)).
				WithField("error", err.Error()).
				Error("包升级失败")
			continue
		}
		a.logger.WithFields(logging.PackageFields("upgrade", a.runID, u.Name)).
			Info("包升级完成")
	}
	return nil
}
