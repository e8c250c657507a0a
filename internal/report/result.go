// Package report turns rows read from the store into tagged report results.
// Everything here is pure: no I/O, no shared state.
package report

// Status tags the outcome of a report
type Status string

const (
	StatusSuccess          Status = "success"
	StatusNoData           Status = "no_data"
	StatusInsufficientData Status = "insufficient_data"
	StatusUndefinedMetric  Status = "undefined_metric"
	StatusError            Status = "error"
)

// Result is the outcome of one report. Data is set for success and
// undefined_metric, Count only for listings.
type Result struct {
	Status  Status
	Data    interface{}
	Count   *int
	Message string
}

// OK wraps a successful payload
func OK(data interface{}) Result {
	return Result{Status: StatusSuccess, Data: data}
}

// OKList wraps a listing together with the number of items returned
func OKList(data interface{}, count int) Result {
	return Result{Status: StatusSuccess, Data: data, Count: &count}
}

// NoData signals the store holds nothing to report on
func NoData(message string) Result {
	return Result{Status: StatusNoData, Message: message}
}

// InsufficientData signals there is data, but not enough for the computation
func InsufficientData(message string) Result {
	return Result{Status: StatusInsufficientData, Message: message}
}

// UndefinedMetric carries a partial payload where a metric could not be computed
func UndefinedMetric(data interface{}, message string) Result {
	return Result{Status: StatusUndefinedMetric, Data: data, Message: message}
}

// Error signals a failure
func Error(message string) Result {
	return Result{Status: StatusError, Message: message}
}

// IsOK reports whether the result carries a complete payload
func (r Result) IsOK() bool {
	return r.Status == StatusSuccess
}
