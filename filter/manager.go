package filter

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/s0up4200/moviescout/tmdb"
)

// BuiltinPresets are always available and can be overridden by configuration
var BuiltinPresets = map[string]string{
	"high":    "Rating > 7",
	"low":     "Rating <= 7",
	"trailer": "HasTrailer",
}

// Manager holds named, pre-compiled filters
type Manager struct {
	compiler *Compiler
	filters  map[string]*Filter
	mu       sync.RWMutex
}

// ManagerOption configures a filter manager
type ManagerOption func(*Manager)

// WithCompiler sets a custom compiler
func WithCompiler(compiler *Compiler) ManagerOption {
	return func(m *Manager) {
		m.compiler = compiler
	}
}

// NewManager creates a manager with the builtin presets registered
func NewManager(opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		compiler: NewCompiler(),
		filters:  make(map[string]*Filter),
	}

	for _, opt := range opts {
		opt(m)
	}

	if err := m.RegisterFilters(BuiltinPresets); err != nil {
		return nil, err
	}

	return m, nil
}

// Compile compiles an ad-hoc expression with the manager's compiler
func (m *Manager) Compile(expression string) (*Filter, error) {
	return m.compiler.Compile(expression)
}

// RegisterFilters registers multiple filters at once. Nothing is registered
// unless every expression compiles.
func (m *Manager) RegisterFilters(filters map[string]string) error {
	compiled := make(map[string]*Filter, len(filters))

	// Compile all filters first
	for name, expr := range filters {
		filter, err := m.compiler.Compile(expr)
		if err != nil {
			return fmt.Errorf("failed to compile filter '%s': %w", name, err)
		}
		compiled[strings.ToLower(name)] = filter
	}

	// If all compiled successfully, register them
	m.mu.Lock()
	maps.Copy(m.filters, compiled)
	m.mu.Unlock()

	return nil
}

// GetFilter returns a compiled filter by name
func (m *Manager) GetFilter(name string) (*Filter, bool) {
	m.mu.RLock()
	filter, exists := m.filters[strings.ToLower(name)]
	m.mu.RUnlock()
	return filter, exists
}

// ListFilters returns all registered filter names, sorted
func (m *Manager) ListFilters() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Sorted(maps.Keys(m.filters))
}

// ApplyPreset filters movies with a registered filter
func (m *Manager) ApplyPreset(name string, movies []tmdb.Movie) ([]tmdb.Movie, error) {
	filter, exists := m.GetFilter(name)
	if !exists {
		return nil, fmt.Errorf("filter '%s' not found (available: %s)", name, strings.Join(m.ListFilters(), ", "))
	}

	return Apply(filter, movies)
}
