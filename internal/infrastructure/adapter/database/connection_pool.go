package database

import (
	"database/sql"
	"sync"
	"time"

	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
)

// ConnectionPoolMetrics is a snapshot of database/sql pool statistics
type ConnectionPoolMetrics struct {
	OpenConnections    int           `json:"open_connections"`
	IdleConnections    int           `json:"idle"`
	MaxOpenConnections int           `json:"max_open_connections"`
	InUse              int           `json:"in_use"`
	WaitCount          int64         `json:"wait_count"`
	WaitDuration       time.Duration `json:"wait_duration_ns"`
}

func metricsFrom(stats sql.DBStats) ConnectionPoolMetrics {
	return ConnectionPoolMetrics{
		OpenConnections:    stats.OpenConnections,
		IdleConnections:    stats.Idle,
		MaxOpenConnections: stats.MaxOpenConnections,
		InUse:              stats.InUse,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration,
	}
}

// ConnectionPoolMonitor periodically samples the pool and warns when it is
// close to exhaustion
type ConnectionPoolMonitor struct {
	stats    func() sql.DBStats
	logger   coreport.Logger
	mutex    sync.RWMutex
	latest   ConnectionPoolMetrics
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewConnectionPoolMonitor creates a new connection pool monitor
func NewConnectionPoolMonitor(stats func() sql.DBStats, logger coreport.Logger) *ConnectionPoolMonitor {
	return &ConnectionPoolMonitor{
		stats:    stats,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start begins monitoring the connection pool
func (m *ConnectionPoolMonitor) Start(interval time.Duration) {
	m.collect()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.collect()
			case <-m.stopChan:
				return
			}
		}
	}()
}

// Stop stops the monitoring
func (m *ConnectionPoolMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}

// GetMetrics returns the last collected snapshot
func (m *ConnectionPoolMonitor) GetMetrics() ConnectionPoolMetrics {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.latest
}

func (m *ConnectionPoolMonitor) collect() {
	metrics := metricsFrom(m.stats())

	m.mutex.Lock()
	m.latest = metrics
	m.mutex.Unlock()

	if metrics.MaxOpenConnections > 0 && float64(metrics.InUse) > float64(metrics.MaxOpenConnections)*0.8 {
		m.logger.Warn("Database connection pool nearly exhausted", map[string]any{
			"in_use":     metrics.InUse,
			"max_open":   metrics.MaxOpenConnections,
			"idle":       metrics.IdleConnections,
			"wait_count": metrics.WaitCount,
			"wait_time":  metrics.WaitDuration.String(),
		})
	}
}
