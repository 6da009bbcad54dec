package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCompletionCommand(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:       "completion <bash|zsh|fish>",
		Short:     "生成 shell 补全脚本",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(stdOut, true)
			case "zsh":
				return root.GenZshCompletion(stdOut)
			case "fish":
				if err := root.GenFishCompletion(stdOut, true); err != nil {
					return err
				}
				writeFishDynamicCompletion()
				return nil
			}
			return fmt.Errorf("不支持的 shell: %s", args[0])
		},
	}
}

// writeFishDynamicCompletion 在生成的 fish 脚本后追加动态包名补全：
// 根命令的位置参数（待安装包）从 `vuru list-packages` 取值。
func writeFishDynamicCompletion() {
	fmt.Fprintln(stdOut)
	fmt.Fprintln(stdOut, "# vuru 动态包名补全")
	fmt.Fprintln(stdOut,
		`complete -c vuru -n "not __fish_seen_subcommand_from search remove sync list-packages completion" -f -a "(vuru list-packages)"`)
}
