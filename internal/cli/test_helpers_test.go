package cli

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/vup-linux/vuru/internal/index"
	"github.com/vup-linux/vuru/internal/store"
)

// useBufferWriters 在测试期间把包级输出流替换为内存缓冲，
// 允许断言 CLI 输出且不污染测试日志。
func useBufferWriters(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	outBuf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}

	prevOut := stdOut
	prevErr := stdErr

	stdOut = outBuf
	stdErr = errBuf

	t.Cleanup(func() {
		stdOut = prevOut
		stdErr = prevErr
	})
	return outBuf, errBuf
}

// fakeReviewer 以固定结果替代真实评审引擎。
type fakeReviewer struct {
	content  string
	approved bool
	err      error
	calls    int
}

func (f *fakeReviewer) Review(pkg, category string) (string, bool, error) {
	f.calls++
	return f.content, f.approved, f.err
}

// fakeSystem 记录委托调用；failInstall 中列出的包安装失败。
type fakeSystem struct {
	installs    []string
	removes     []string
	failInstall map[string]bool
	installed   map[string]string
}

var errInstallBoom = errors.New("xbps-install exploded")

func (f *fakeSystem) Install(pkg, repoURL string) error {
	f.installs = append(f.installs, pkg+"@"+repoURL)
	if f.failInstall[pkg] {
		return errInstallBoom
	}
	return nil
}

func (f *fakeSystem) Remove(pkg string) error {
	f.removes = append(f.removes, pkg)
	return nil
}

func (f *fakeSystem) ListInstalled() (map[string]string, error) {
	return f.installed, nil
}

func (f *fakeSystem) CompareVersions(a, b string) (int, error) {
	switch {
	case a > b:
		return 1, nil
	case a < b:
		return -1, nil
	}
	return 0, nil
}

func newTestApp(t *testing.T, engine reviewer, system *fakeSystem) (*App, *store.Store, *bytes.Buffer) {
	t.Helper()

	st, err := store.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	out := &bytes.Buffer{}
	app := &App{
		logger: logger,
		runID:  "test-run",
		store:  st,
		engine: engine,
		system: system,
		out:    out,
		errOut: out,
	}
	return app, st, out
}

func testDirectory(t *testing.T, payload string) *index.Directory {
	t.Helper()
	dir, err := index.Decode([]byte(payload))
	if err != nil {
		t.Fatalf("测试索引解码失败: %v", err)
	}
	return dir
}
