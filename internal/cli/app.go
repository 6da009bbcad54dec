package cli

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vup-linux/vuru/internal/config"
	"github.com/vup-linux/vuru/internal/httpclient"
	"github.com/vup-linux/vuru/internal/index"
	"github.com/vup-linux/vuru/internal/logging"
	"github.com/vup-linux/vuru/internal/review"
	"github.com/vup-linux/vuru/internal/store"
	"github.com/vup-linux/vuru/internal/xbps"
)

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
	stdIn  io.Reader = os.Stdin
)

// reviewer 是模板评审引擎对编排层暴露的最小面；测试以假实现替换。
type reviewer interface {
	Review(pkg, category string) (content string, approved bool, err error)
}

// App 聚合一次命令调用所需的全部依赖，构造顺序遵循
// “配置 → 日志 → 缓存 → HTTP client → 同步器/评审引擎/XBPS”。
type App struct {
	cfg    *config.Config
	logger logrus.FieldLogger
	runID  string

	store  *store.Store
	sync   *index.Synchronizer
	engine reviewer
	system xbps.System

	out    io.Writer
	errOut io.Writer
}

// newApp 按配置路径完成全部装配。quiet 模式（shell 补全）把日志压到
// 最低级别，避免补全输出混入诊断信息。
func newApp(configPath string, quiet bool) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.InitLogger(cfg)
	if err != nil {
		return nil, err
	}
	if quiet {
		logger.SetLevel(logrus.PanicLevel)
	}

	runID := logging.NewRunID()
	entry := logger.WithField("run_id", runID)

	st, err := store.NewStore(cfg.StoragePath)
	if err != nil {
		return nil, err
	}

	client := httpclient.New(cfg)

	return &App{
		cfg:    cfg,
		logger: entry,
		runID:  runID,
		store:  st,
		sync:   index.NewSynchronizer(cfg.IndexURL, client, st, entry),
		engine: review.NewEngine(cfg.TemplateURL, client, st, review.NewExecRunner(stdOut), stdIn, stdOut, entry),
		system: xbps.NewExecSystem(entry),
		out:    stdOut,
		errOut: stdErr,
	}, nil
}
