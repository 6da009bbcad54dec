package xbps

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrExternalTool 表示委托的外部 XBPS 进程以非零状态退出。
var ErrExternalTool = errors.New("external tool failed")

// System 抽象 XBPS 工具链能力，核心流程只通过它委托系统级变更，
// 测试用假实现替换即可完全脱离真实系统命令。
type System interface {
	// Install 以 repoURL 为仓库源安装包，继承当前终端交互。
	Install(pkg, repoURL string) error

	// Remove 递归卸载包。
	Remove(pkg string) error

	// ListInstalled 返回已安装包的 名称 → 版本 映射。
	ListInstalled() (map[string]string, error)

	// CompareVersions 返回三向比较结果：a>b 为 1，a==b 为 0，a<b 为 -1。
	// 版本串语义完全由外部比较器决定，核心不做任何解析。
	CompareVersions(a, b string) (int, error)
}

// ExecSystem 是 System 的真实实现，通过 sudo 调用 XBPS 工具链。
type ExecSystem struct {
	logger logrus.FieldLogger
}

// NewExecSystem 构造真实的 XBPS 执行器。
func NewExecSystem(logger logrus.FieldLogger) *ExecSystem {
	return &ExecSystem{logger: logger}
}

func (s *ExecSystem) Install(pkg, repoURL string) error {
	return s.runInteractive("sudo", "xbps-install", "-R", repoURL, "-S", pkg)
}

func (s *ExecSystem) Remove(pkg string) error {
	return s.runInteractive("sudo", "xbps-remove", "-R", pkg)
}

func (s *ExecSystem) ListInstalled() (map[string]string, error) {
	output, err := exec.Command("xbps-query", "-l").Output()
	if err != nil {
		return nil, fmt.Errorf("%w: xbps-query: %v", ErrExternalTool, err)
	}
	return ParseInstalled(string(output)), nil
}

func (s *ExecSystem) CompareVersions(a, b string) (int, error) {
	err := exec.Command("xbps-uhelper", "cmpver", a, b).Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		switch exitErr.ExitCode() {
		case 1:
			return 1, nil
		case 255:
			return -1, nil
		}
	}
	return 0, fmt.Errorf("%w: xbps-uhelper cmpver: %v", ErrExternalTool, err)
}

// runInteractive 直接把子进程挂到当前终端上，安装/卸载的确认交互
// 由 XBPS 自己完成。
func (s *ExecSystem) runInteractive(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	s.logger.WithFields(logrus.Fields{
		"action":  "exec",
		"command": name + " " + strings.Join(args, " "),
	}).Debug("调用外部工具")

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrExternalTool, args[0], err)
	}
	return nil
}

// ParseInstalled 解析 xbps-query -l 的两列输出（"ii 包名-版本 描述"），
// 包名与版本以最后一个连字符分界。无法识别的行直接跳过。
func ParseInstalled(output string) map[string]string {
	installed := make(map[string]string)
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		pkgFull := fields[1]
		sep := strings.LastIndex(pkgFull, "-")
		if sep <= 0 || sep == len(pkgFull)-1 {
			continue
		}
		installed[pkgFull[:sep]] = pkgFull[sep+1:]
	}
	return installed
}
