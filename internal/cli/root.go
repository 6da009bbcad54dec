package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vup-linux/vuru/internal/version"
)

// Execute 构建命令树并运行，把错误映射为进程退出码。
func Execute(args []string) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdOut)
	root.SetErr(stdErr)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stdErr, "错误: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCommand 组装 vuru 的 cobra 命令树。根命令本身承担安装入口：
// 位置参数即待安装的包，-S 强制刷新索引，-u 升级全部 VUR 包。
func NewRootCommand() *cobra.Command {
	var (
		configPath string
		forceSync  bool
		updateAll  bool
	)

	root := &cobra.Command{
		Use:           "vuru [包名...]",
		Short:         "VUR 包管理助手：同步索引、评审模板并委托 XBPS 安装",
		Version:       version.Full(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !forceSync && !updateAll && len(args) == 0 {
				return cmd.Help()
			}

			app, err := newApp(resolveConfigPath(configPath), false)
			if err != nil {
				return err
			}

			dir, err := app.sync.Load(forceSync)
			if err != nil {
				return err
			}

			if forceSync && !updateAll && len(args) == 0 {
				fmt.Fprintln(app.out, "索引已同步。")
				return nil
			}
			// -u 先批量升级，再处理同一命令行上显式点名的包。
			if updateAll {
				if err := app.UpgradeAll(dir); err != nil {
					return err
				}
				if len(args) == 0 {
					return nil
				}
			}

			// 多个包按声明顺序严格串行处理：上一个包的完整评审与安装
			// 结束（或被放弃）之前，不开始下一个包。
			for _, pkg := range args {
				if err := app.Install(dir, pkg); err != nil {
					return err
				}
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "",
		"配置文件路径（默认 ~/.config/vuru/config.toml，可被 VURU_CONFIG 覆盖）")
	root.Flags().BoolVarP(&forceSync, "sync", "S", false, "强制刷新本地索引缓存")
	root.Flags().BoolVarP(&updateAll, "update", "u", false, "升级全部已安装的 VUR 包")

	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(
		newSearchCommand(),
		newRemoveCommand(),
		newSyncCommand(),
		newListPackagesCommand(),
		newCompletionCommand(root),
	)

	return root
}

// resolveConfigPath 解析最终配置路径：flag 优先于 VURU_CONFIG 环境变量，
// 两者都缺省时交由 config.Load 使用默认位置。
func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("VURU_CONFIG")
}

// configPathFrom 读取根命令上的持久 config flag，供子命令复用。
func configPathFrom(cmd *cobra.Command) string {
	value, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return os.Getenv("VURU_CONFIG")
	}
	return resolveConfigPath(value)
}
