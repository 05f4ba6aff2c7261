package workload

// NoOpWorkload is a no-op implementation of Workload.
// It issues no allocations and reports zero metrics.
type NoOpWorkload struct{}

// WorkloadMetrics always returns zero values.
func (NoOpWorkload) WorkloadMetrics() (issued, done, errors int64) {
	return 0, 0, 0
}

// Close does nothing and returns nil.
func (NoOpWorkload) Close() error {
	return nil
}
