package wallet

// MetricsCollector receives ledger activity for monitoring.
type MetricsCollector interface {
	RecordTransaction(txType string, amount float64)
	RecordError(operation, errType string)
	RecordCacheHit(key string)
	RecordCacheMiss(key string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransaction(string, float64) {}
func (n *NoopMetricsCollector) RecordError(string, string)        {}
func (n *NoopMetricsCollector) RecordCacheHit(string)             {}
func (n *NoopMetricsCollector) RecordCacheMiss(string)            {}
