package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "强制刷新本地索引缓存（等价于 vuru -S）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(configPathFrom(cmd), false)
			if err != nil {
				return err
			}
			if _, err := app.sync.Load(true); err != nil {
				return err
			}
			fmt.Fprintln(app.out, "索引已同步。")
			return nil
		},
	}
}
