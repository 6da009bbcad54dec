package review

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vup-linux/vuru/internal/store"
)

// ErrTemplateFetchFailed 表示远端模板拉取失败。评审不允许退回陈旧模板：
// 把过期内容当作当前版本给用户看会产生误导，因此直接终止本次安装。
var ErrTemplateFetchFailed = errors.New("template fetch failed")

// Engine 实现“拉取 → 对比缓存 → 渲染 → 确认”的模板评审流水线。
// Engine 自身从不写模板缓存；只有安装真正继续时才由调用方回写基线，
// 保证被用户拒绝的内容不会污染下一次 diff 的对照版本。
type Engine struct {
	templateURL string
	client      *http.Client
	store       *store.Store
	runner      Runner
	in          io.Reader
	out         io.Writer
	logger      logrus.FieldLogger
	tempDir     string
}

// NewEngine 构造评审引擎。templateURL 含 category 与包名两个 %s 占位符。
func NewEngine(
	templateURL string,
	client *http.Client,
	st *store.Store,
	runner Runner,
	in io.Reader,
	out io.Writer,
	logger logrus.FieldLogger,
) *Engine {
	return &Engine{
		templateURL: templateURL,
		client:      client,
		store:       st,
		runner:      runner,
		in:          in,
		out:         out,
		logger:      logger,
		tempDir:     os.TempDir(),
	}
}

// Review 对包执行一次完整评审，返回拉取到的模板内容与用户决定。
// 线性状态机，无循环：拉取失败立即终止；渲染分支取决于缓存基线的
// 存在与否及内容是否相等；最后一律征询用户确认。
func (e *Engine) Review(pkg, category string) (content string, approved bool, err error) {
	content, err = e.fetchTemplate(category, pkg)
	if err != nil {
		return "", false, err
	}

	previous, prevErr := e.store.ReadTemplate(pkg)
	switch {
	case errors.Is(prevErr, store.ErrNotFound):
		fmt.Fprintf(e.out, "首次安装 %s，通过分页器查看模板内容：\n", pkg)
		if err := e.runner.Page(content); err != nil {
			return "", false, fmt.Errorf("启动分页器失败: %w", err)
		}
	case prevErr != nil:
		return "", false, fmt.Errorf("读取模板缓存失败: %w", prevErr)
	case previous == content:
		fmt.Fprintf(e.out, "%s 的模板自上次缓存以来未发生变化。\n", pkg)
	default:
		fmt.Fprintf(e.out, "%s 的模板已变化，显示差异：\n", pkg)
		fmt.Fprintln(e.out, strings.Repeat("-", 50))
		if err := e.renderDiff(pkg, previous, content); err != nil {
			return "", false, err
		}
		fmt.Fprintln(e.out, strings.Repeat("-", 50))
	}

	return content, e.confirm(), nil
}

// renderDiff 把新旧模板写入临时文件交给外部 diff，任何出口都清理临时文件。
func (e *Engine) renderDiff(pkg, previous, current string) error {
	oldPath := filepath.Join(e.tempDir, pkg+".old")
	newPath := filepath.Join(e.tempDir, pkg+".new")
	defer os.Remove(oldPath)
	defer os.Remove(newPath)

	if err := os.WriteFile(oldPath, []byte(previous), 0o600); err != nil {
		return fmt.Errorf("写入 diff 临时文件失败: %w", err)
	}
	if err := os.WriteFile(newPath, []byte(current), 0o600); err != nil {
		return fmt.Errorf("写入 diff 临时文件失败: %w", err)
	}

	if err := e.runner.Diff(oldPath, newPath); err != nil {
		// diff 渲染失败不终止评审，用户仍可基于提示决定是否继续。
		e.logger.WithFields(logrus.Fields{
			"action":  "template_review",
			"package": pkg,
			"error":   err.Error(),
		}).Warn("diff 渲染失败")
	}
	return nil
}

// confirm 征询用户确认：空输入与大小写不敏感的 y/yes 视为同意，
// 其余输入以及输入流读取失败一律视为拒绝。
func (e *Engine) confirm() bool {
	fmt.Fprint(e.out, "是否继续安装？[Y/n] ")

	line, err := bufio.NewReader(e.in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "" || answer == "y" || answer == "yes"
}

// fetchTemplate 从固定模板地址拉取配方文本，非 2xx 状态为硬失败，不重试。
func (e *Engine) fetchTemplate(category, pkg string) (string, error) {
	url := fmt.Sprintf(e.templateURL, category, pkg)
	resp, err := e.client.Get(url)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s 返回 %s", ErrTemplateFetchFailed, url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateFetchFailed, err)
	}
	return string(body), nil
}
