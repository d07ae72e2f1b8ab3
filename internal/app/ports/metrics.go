package ports

type ActionMetrics interface {
	RecordSuccess()
	RecordFailure()
	RecordInvalid()
}
