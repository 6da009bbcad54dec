package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListPackagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list-packages",
		Short: "输出索引中的全部包名，供 shell 动态补全使用",
		Args:  cobra.NoArgs,
		// 补全场景要求快速且绝不污染输出：任何失败都静默吞掉，
		// 宁可补全列表为空也不让补全本身报错。
		Run: func(cmd *cobra.Command, args []string) {
			app, err := newApp(configPathFrom(cmd), true)
			if err != nil {
				return
			}
			dir, err := app.sync.Load(false)
			if err != nil {
				return
			}
			for _, name := range dir.Names() {
				fmt.Fprintln(app.out, name)
			}
		},
	}
}
