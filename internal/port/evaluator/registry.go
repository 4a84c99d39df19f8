package evaluator

// Registry maps evaluator names to evaluator collaborators and preserves
// registration order. The order fixes the invocation sequence within a round
// and is stable across rounds of the same run; feeding evaluator N's output
// to evaluator N+1 via the input router depends on it.
//
// A Registry is owned by a single run configuration and is not mutated while
// a run is in flight, so it carries no locking.
type Registry struct {
	order      []string
	evaluators map[string]Evaluator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{evaluators: make(map[string]Evaluator)}
}

// Register stores ev under name. Registering the same name twice is not an
// error: the last registration wins and keeps the original order slot.
func (r *Registry) Register(name string, ev Evaluator) {
	if _, exists := r.evaluators[name]; !exists {
		r.order = append(r.order, name)
	}
	r.evaluators[name] = ev
}

// Get returns the evaluator registered under name.
func (r *Registry) Get(name string) (Evaluator, bool) {
	ev, ok := r.evaluators[name]
	return ev, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of registered evaluators.
func (r *Registry) Len() int {
	return len(r.order)
}
