package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vup-linux/vuru/internal/logging"
)

func newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <包名>...",
		Short: "递归卸载已安装的包",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(configPathFrom(cmd), false)
			if err != nil {
				return err
			}
			// 显式卸载遇到失败立即终止，不继续后面的包。
			for _, pkg := range args {
				if err := app.Remove(pkg); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// Remove 把卸载直接委托给 XBPS，索引与模板缓存保持不动。
func (a *App) Remove(pkg string) error {
	fmt.Fprintf(a.out, "正在卸载 %s...\n", pkg)
	if err := a.system.Remove(pkg); err != nil {
		return err
	}
	a.logger.WithFields(logging.PackageFields("remove", a.runID, pkg)).
		Info("卸载完成")
	return nil
}
