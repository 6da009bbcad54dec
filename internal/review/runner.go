package review

import (
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner 抽象评审流程依赖的外部进程（分页器与 diff 渲染），
// 测试中以假实现替换，避免真的拉起交互式程序。
type Runner interface {
	// Page 将完整模板内容送入交互式分页器展示。
	Page(content string) error

	// Diff 调用外部 diff 渲染两个文件的差异。diff 在文件有差异时以
	// 退出码 1 结束，调用方不把它当作失败。
	Diff(oldPath, newPath string) error
}

// execRunner 是 Runner 的真实实现，直接挂接当前终端。
type execRunner struct {
	out io.Writer
}

// NewExecRunner 返回调用系统 less/diff 的 Runner。
func NewExecRunner(out io.Writer) Runner {
	return &execRunner{out: out}
}

func (r *execRunner) Page(content string) error {
	cmd := exec.Command("less")
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (r *execRunner) Diff(oldPath, newPath string) error {
	cmd := exec.Command("diff", "-u", "--color=always", oldPath, newPath)
	cmd.Stdout = r.out
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	// 退出码 1 表示文件有差异，属于预期结果。
	if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
		return nil
	}
	return err
}
