package index

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vup-linux/vuru/internal/store"
)

// ErrSyncUnavailable 表示既拿不到网络索引也没有可用缓存，调用方应终止
// 任何依赖索引的操作。
var ErrSyncUnavailable = errors.New("index sync unavailable: no network and no usable cache")

// Synchronizer 负责“条件拉取 → 304 短路 → 缓存兜底”的索引同步全流程。
// indexURL 通过构造注入而非编译期常量，方便测试指向假端点。
type Synchronizer struct {
	indexURL string
	client   *http.Client
	store    *store.Store
	logger   logrus.FieldLogger
}

// NewSynchronizer 构造索引同步器，所有依赖显式注入。
func NewSynchronizer(indexURL string, client *http.Client, st *store.Store, logger logrus.FieldLogger) *Synchronizer {
	return &Synchronizer{
		indexURL: indexURL,
		client:   client,
		store:    st,
		logger:   logger,
	}
}

// Load 返回当前可用的包目录。三种出口：
//  1. 未要求刷新且缓存可解码 → 直接返回缓存，零网络调用；
//  2. 触网条件拉取：304 复用缓存字节；200 解码校验后整体落盘再返回；
//     新载荷解码失败视同拉取失败，绝不用坏数据污染缓存；
//  3. 拉取失败时回退到可解码缓存并告警；无缓存则返回 ErrSyncUnavailable。
func (s *Synchronizer) Load(forceRefresh bool) (*Directory, error) {
	cached, cacheErr := s.store.ReadIndex()

	if !forceRefresh && cacheErr == nil {
		if dir, err := Decode(cached); err == nil {
			return dir, nil
		}
		s.logger.WithFields(logrus.Fields{
			"action": "index_sync",
			"url":    s.indexURL,
		}).Warn("缓存索引损坏，按缓存缺失处理")
	}

	etag := s.store.ReadETag()
	payload, newETag, notModified, fetchErr := s.fetch(etag)

	if fetchErr == nil {
		if notModified {
			return s.loadNegotiated(cached, cacheErr)
		}

		dir, decodeErr := Decode(payload)
		if decodeErr == nil {
			s.persist(payload, newETag)
			return dir, nil
		}
		// 新载荷不可解码，按拉取失败进入兜底。
		fetchErr = decodeErr
	}

	if cacheErr == nil {
		if dir, err := Decode(cached); err == nil {
			s.logger.WithFields(logrus.Fields{
				"action": "index_sync",
				"url":    s.indexURL,
				"error":  fetchErr.Error(),
			}).Warn("索引拉取失败，回退到本地缓存")
			return dir, nil
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrSyncUnavailable, fetchErr)
}

// loadNegotiated 处理服务端 304：命中即复用既有缓存字节，不发生重写。
// 协商成功但缓存同时缺失/损坏属于不可恢复状态，按 ErrSyncUnavailable 终止。
func (s *Synchronizer) loadNegotiated(cached []byte, cacheErr error) (*Directory, error) {
	if cacheErr != nil {
		return nil, fmt.Errorf("%w: server reported not-modified but cache is missing", ErrSyncUnavailable)
	}
	dir, err := Decode(cached)
	if err != nil {
		return nil, fmt.Errorf("%w: server reported not-modified but cache is corrupt: %v", ErrSyncUnavailable, err)
	}
	s.logger.WithFields(logrus.Fields{
		"action": "index_sync",
		"url":    s.indexURL,
		"result": "not_modified",
	}).Debug("索引未变化，复用缓存")
	return dir, nil
}

// persist 原子落盘新索引。ETag sidecar 写入失败只告警，不回滚同步。
func (s *Synchronizer) persist(payload []byte, etag string) {
	err := s.store.WriteIndex(payload, etag)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrTokenWrite):
		s.logger.WithFields(logrus.Fields{
			"action": "index_sync",
			"error":  err.Error(),
		}).Warn("ETag sidecar 写入失败，下次同步将全量拉取")
	default:
		s.logger.WithFields(logrus.Fields{
			"action": "index_sync",
			"error":  err.Error(),
		}).Error("索引写入缓存失败")
	}
}

// fetch 执行一次条件 GET。etag 非空时原样带上 If-None-Match，
// 响应中的 ETag 亦原样保存，保持验证符在两端之间逐字往返。
func (s *Synchronizer) fetch(etag string) (payload []byte, newETag string, notModified bool, err error) {
	req, err := http.NewRequest(http.MethodGet, s.indexURL, nil)
	if err != nil {
		return nil, "", false, err
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		return nil, "", true, nil
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, "", false, err
		}
		return body, resp.Header.Get("Etag"), false, nil
	default:
		return nil, "", false, fmt.Errorf("unexpected index status: %s", resp.Status)
	}
}
