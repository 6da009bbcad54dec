package integration

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/vup-linux/vuru/internal/index"
	"github.com/vup-linux/vuru/internal/review"
	"github.com/vup-linux/vuru/internal/store"
)

const flowIndex = `{
	"foo":  {"category":"dev","version":"1.0","repo_url":"http://repo/foo"},
	"food": {"category":"apps","version":"2.0","repo_url":"http://repo/food"},
	"bar":  {"category":"dev","version":"3.0","repo_url":"http://repo/bar"}
}`

// 覆盖一次完整的用户路径：强制同步 → 条件刷新命中 304 → 搜索 →
// 模板评审拒绝后基线不变 → 同意后基线更新。
func TestSyncSearchReviewFlow(t *testing.T) {
	var indexHits atomic.Int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/index.json"):
			indexHits.Add(1)
			if r.Header.Get("If-None-Match") == "flow-etag" {
				w.WriteHeader(http.StatusNotModified)
				return
			}
			w.Header().Set("Etag", "flow-etag")
			io.WriteString(w, flowIndex)
		case strings.HasPrefix(r.URL.Path, "/srcpkgs/"):
			io.WriteString(w, "pkgname=foo\nversion=1.0\n")
		default:
			http.NotFound(w, r)
		}
	}))
	defer upstream.Close()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	st, err := store.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("创建缓存失败: %v", err)
	}

	sync := index.NewSynchronizer(upstream.URL+"/index.json", http.DefaultClient, st, logger)

	// 首次强制同步：全量拉取并落盘。
	dir, err := sync.Load(true)
	if err != nil {
		t.Fatalf("首次同步失败: %v", err)
	}
	if dir.Len() != 3 {
		t.Fatalf("索引应包含 3 个包，得到 %d", dir.Len())
	}
	if etag := st.ReadETag(); etag != "flow-etag" {
		t.Fatalf("ETag 应已落盘，得到 %q", etag)
	}

	// 二次强制同步：条件请求命中 304，索引内容不变。
	dir, err = sync.Load(true)
	if err != nil {
		t.Fatalf("304 同步失败: %v", err)
	}
	if indexHits.Load() != 2 {
		t.Fatalf("应发生两次索引请求，实际 %d", indexHits.Load())
	}

	// 普通查询路径：零网络调用。
	if _, err := sync.Load(false); err != nil {
		t.Fatalf("缓存命中路径失败: %v", err)
	}
	if indexHits.Load() != 2 {
		t.Fatalf("缓存命中不应再触网，实际 %d 次请求", indexHits.Load())
	}

	results := dir.Search("oo")
	if len(results) != 2 || results[0].Name != "foo" || results[1].Name != "food" {
		t.Fatalf("搜索 oo 应返回 foo、food: %+v", results)
	}

	// 评审被拒绝：模板基线保持不存在。
	engine := newFlowEngine(upstream.URL, st, "n\n", logger)
	if _, approved, err := engine.Review("foo", "dev"); err != nil || approved {
		t.Fatalf("拒绝评审应返回 false, err=%v approved=%v", err, approved)
	}
	if _, err := st.ReadTemplate("foo"); err == nil {
		t.Fatalf("拒绝后不应存在模板基线")
	}

	// 评审通过：编排层回写基线（此处模拟调用方职责）。
	engine = newFlowEngine(upstream.URL, st, "\n", logger)
	content, approved, err := engine.Review("foo", "dev")
	if err != nil || !approved {
		t.Fatalf("默认确认应通过评审, err=%v approved=%v", err, approved)
	}
	if err := st.WriteTemplate("foo", content); err != nil {
		t.Fatalf("回写基线失败: %v", err)
	}
	baseline, err := st.ReadTemplate("foo")
	if err != nil || baseline != "pkgname=foo\nversion=1.0\n" {
		t.Fatalf("基线内容不一致: %q, err=%v", baseline, err)
	}
}

// silentRunner 在集成测试里既不分页也不渲染 diff。
type silentRunner struct{}

func (silentRunner) Page(string) error      { return nil }
func (silentRunner) Diff(_, _ string) error { return nil }

func newFlowEngine(baseURL string, st *store.Store, input string, logger *logrus.Logger) *review.Engine {
	return review.NewEngine(
		baseURL+"/srcpkgs/%s/%s/template",
		http.DefaultClient,
		st,
		silentRunner{},
		strings.NewReader(input),
		io.Discard,
		logger,
	)
}
