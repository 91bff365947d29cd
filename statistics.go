package outbox

// Statistics holds per-status record counts for observability.
type Statistics struct {
	Pending    int64
	Processing int64
	Sent       int64
	Failed     int64
}

// Total returns the number of records across all states.
func (s Statistics) Total() int64 {
	return s.Pending + s.Processing + s.Sent + s.Failed
}
