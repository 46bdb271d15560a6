package jobs

import (
	"encoding/json"
	"strings"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCacheRefresh drops backend product caches and chart snapshots.
	TaskCacheRefresh = "inventory:cache_refresh"
	// TaskLowStockScan reports products under their minimum stock level.
	TaskLowStockScan = "inventory:low_stock_scan"
)

// CacheRefreshPayload describes a cache refresh request.
type CacheRefreshPayload struct {
	// Reason is logged with the run, e.g. "cron" or "operator".
	Reason string `json:"reason"`
	// SkipBackend only bumps the chart cache version.
	SkipBackend bool `json:"skip_backend,omitempty"`
}

// NewCacheRefreshTask constructs an Asynq task.
func NewCacheRefreshTask(payload CacheRefreshPayload) (*asynq.Task, error) {
	if strings.TrimSpace(payload.Reason) == "" {
		payload.Reason = "manual"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCacheRefresh, data), nil
}

// LowStockScanPayload bounds the scan.
type LowStockScanPayload struct {
	Limit int `json:"limit"`
}

// NewLowStockScanTask constructs an Asynq task.
func NewLowStockScanTask(payload LowStockScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, data), nil
}
