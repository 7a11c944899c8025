package metrics

// Metrics defines what handlers and services record. It decouples them from
// Prometheus so tests can pass a Mock.
type Metrics interface {
	ObserveRequest(method, route string, status int, seconds float64)
	IncGameSearch(city string, results int)
	IncFieldMutation(op string)
	IncGameMutation(op string)
	SetStartupTime(seconds float64)
}

// Noop discards everything. Services fall back to it when no Metrics is
// given.
type Noop struct{}

var _ Metrics = Noop{}

func (Noop) ObserveRequest(string, string, int, float64) {}
func (Noop) IncGameSearch(string, int)                   {}
func (Noop) IncFieldMutation(string)                     {}
func (Noop) IncGameMutation(string)                      {}
func (Noop) SetStartupTime(float64)                      {}
