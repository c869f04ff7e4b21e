package agent

// DefaultConfidenceThreshold is the minimum score FindBest accepts.
const DefaultConfidenceThreshold = 0.3

// Capability summarizes one registered handler for listings.
type Capability struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tools       []string `json:"tools"`
}

// Registry holds the specialist handlers by short key. It is populated
// once at startup and read-only afterwards.
type Registry struct {
	handlers map[string]Handler
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// NewDefaultRegistry registers the three specialist tutors.
func NewDefaultRegistry(cfg Config) *Registry {
	r := NewRegistry()
	r.Register("math", NewMathHandler(cfg))
	r.Register("physics", NewPhysicsHandler(cfg))
	r.Register("biology", NewBiologyHandler(cfg))
	return r
}

func (r *Registry) Register(key string, h Handler) {
	if _, exists := r.handlers[key]; !exists {
		r.order = append(r.order, key)
	}
	r.handlers[key] = h
}

func (r *Registry) Get(key string) (Handler, bool) {
	h, ok := r.handlers[key]
	return h, ok
}

// Keys returns the handler keys in registration order.
func (r *Registry) Keys() []string {
	return append([]string(nil), r.order...)
}

// Capabilities lists every registered handler in registration order.
func (r *Registry) Capabilities() []Capability {
	out := make([]Capability, 0, len(r.order))
	for _, key := range r.order {
		h := r.handlers[key]
		tools := h.Tools()
		if tools == nil {
			tools = []string{}
		}
		out = append(out, Capability{
			Key:         key,
			Name:        h.Name(),
			Description: h.Description(),
			Tools:       tools,
		})
	}
	return out
}

// FindBest scores every handler against the text and returns the highest
// scorer at or above the threshold, or nil when none qualifies. This is
// the deterministic fallback to model-driven routing.
func (r *Registry) FindBest(text string, threshold float64) (Handler, float64) {
	var (
		best     Handler
		bestConf float64
	)
	for _, key := range r.order {
		h := r.handlers[key]
		if conf := h.EstimateConfidence(text); conf > bestConf && conf >= threshold {
			best = h
			bestConf = conf
		}
	}
	return best, bestConf
}
