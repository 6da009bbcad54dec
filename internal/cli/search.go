package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vup-linux/vuru/internal/index"
)

func newSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <关键字>",
		Short: "按名称子串搜索 VUR 包",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(configPathFrom(cmd), false)
			if err != nil {
				return err
			}
			dir, err := app.sync.Load(false)
			if err != nil {
				return err
			}
			return app.Search(dir, args[0])
		},
	}
}

// Search 以表格输出匹配结果，行序由 Directory.Search 的字典序保证。
func (a *App) Search(dir *index.Directory, query string) error {
	results := dir.Search(query)
	if len(results) == 0 {
		fmt.Fprintf(a.out, "未找到与 %q 匹配的包\n", query)
		return nil
	}

	fmt.Fprintf(a.out, "%-20s %-15s %-20s\n", "PACKAGE", "VERSION", "CATEGORY")
	fmt.Fprintln(a.out, strings.Repeat("-", 55))
	for _, entry := range results {
		fmt.Fprintf(a.out, "%-20s %-15s %-20s\n", entry.Name, entry.Meta.Version, entry.Meta.Category)
	}
	return nil
}
