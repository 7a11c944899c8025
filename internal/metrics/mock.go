package metrics

import "sync"

// Mock is a Metrics implementation for tests. It is safe for concurrent use.
type Mock struct {
	mu             sync.Mutex
	requests       int
	searches       map[string]int
	fieldMutations map[string]int
	gameMutations  map[string]int
	startupTime    float64
}

func NewMock() *Mock {
	return &Mock{
		searches:       make(map[string]int),
		fieldMutations: make(map[string]int),
		gameMutations:  make(map[string]int),
	}
}

func (m *Mock) ObserveRequest(method, route string, status int, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests++
}

func (m *Mock) IncGameSearch(city string, results int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches[city]++
}

func (m *Mock) IncFieldMutation(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fieldMutations[op]++
}

func (m *Mock) IncGameMutation(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gameMutations[op]++
}

func (m *Mock) SetStartupTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = seconds
}

func (m *Mock) Requests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests
}

func (m *Mock) Searches(city string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searches[city]
}

func (m *Mock) FieldMutations(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fieldMutations[op]
}

func (m *Mock) GameMutations(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gameMutations[op]
}
