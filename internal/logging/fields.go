package logging

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NewRunID 生成一次命令调用的关联 ID，串联同一次执行产生的全部日志。
func NewRunID() string {
	return uuid.NewString()
}

// BaseFields 构建 action + run_id 基础字段，便于不同入口复用。
func BaseFields(action, runID string) logrus.Fields {
	return logrus.Fields{
		"action": action,
		"run_id": runID,
	}
}

// PackageFields 提供包名与操作字段，供安装/卸载/升级日志复用。
func PackageFields(action, runID, pkg string) logrus.Fields {
	fields := BaseFields(action, runID)
	fields["package"] = pkg
	return fields
}
