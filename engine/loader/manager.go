package loader

import "sync"

// Manager aggregates progress across every load started through the loaders that share it.
// All hooks run on the render loop.
type Manager struct {
	mu *sync.Mutex

	loading bool
	loaded  int
	total   int

	onStart    func(url string, loaded, total int)
	onProgress func(url string, loaded, total int)
	onLoad     func()
	onError    func(url string, err error)
}

// ManagerOption is a functional option for configuring a Manager.
type ManagerOption func(*Manager)

// WithOnStart registers a hook fired when the first item of a batch starts loading.
func WithOnStart(fn func(url string, loaded, total int)) ManagerOption {
	return func(m *Manager) {
		m.onStart = fn
	}
}

// WithOnProgress registers a hook fired after each item finishes, successfully or not.
func WithOnProgress(fn func(url string, loaded, total int)) ManagerOption {
	return func(m *Manager) {
		m.onProgress = fn
	}
}

// WithOnLoad registers a hook fired when every started item finished.
func WithOnLoad(fn func()) ManagerOption {
	return func(m *Manager) {
		m.onLoad = fn
	}
}

// WithOnError registers a hook fired for each item that failed.
func WithOnError(fn func(url string, err error)) ManagerOption {
	return func(m *Manager) {
		m.onError = fn
	}
}

// NewManager creates a Manager.
//
// Parameters:
//   - options: hooks to register
//
// Returns:
//   - *Manager: the manager
func NewManager(options ...ManagerOption) *Manager {
	m := &Manager{mu: &sync.Mutex{}}
	for _, option := range options {
		option(m)
	}
	return m
}

// Counts returns how many items finished and how many were started in the current batch.
func (m *Manager) Counts() (loaded, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded, m.total
}

// Loading reports whether a batch is in flight.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

func (m *Manager) itemStart(url string) {
	m.mu.Lock()
	m.total++
	first := !m.loading
	m.loading = true
	loaded, total := m.loaded, m.total
	m.mu.Unlock()

	if first && m.onStart != nil {
		m.onStart(url, loaded, total)
	}
}

func (m *Manager) itemEnd(url string) {
	m.mu.Lock()
	m.loaded++
	loaded, total := m.loaded, m.total
	done := loaded == total
	if done {
		m.loading = false
	}
	m.mu.Unlock()

	if m.onProgress != nil {
		m.onProgress(url, loaded, total)
	}
	if done && m.onLoad != nil {
		m.onLoad()
	}
}

func (m *Manager) itemError(url string, err error) {
	if m.onError != nil {
		m.onError(url, err)
	}
}
