package intake

import (
	"fmt"
	"sort"
	"sync"
)

// GuidanceKind selects the filing authority family for a domain.
type GuidanceKind string

const (
	GuidancePolice   GuidanceKind = "police"
	GuidanceCyber    GuidanceKind = "cyber"
	GuidanceConsumer GuidanceKind = "consumer"
	GuidanceProperty GuidanceKind = "property"
	GuidanceGeneric  GuidanceKind = "generic"
)

// ActionChoice is a branching legal remedy offered once per session.
type ActionChoice struct {
	Title          string   `json:"title" mapstructure:"title"`
	Pros           []string `json:"pros" mapstructure:"pros"`
	Cons           []string `json:"cons" mapstructure:"cons"`
	RequiredFields []string `json:"required_fields,omitempty" mapstructure:"required_fields"`
}

func (a ActionChoice) clone() ActionChoice {
	return ActionChoice{
		Title:          a.Title,
		Pros:           append([]string(nil), a.Pros...),
		Cons:           append([]string(nil), a.Cons...),
		RequiredFields: append([]string(nil), a.RequiredFields...),
	}
}

type Thresholds struct {
	NeedsMoreDetail int `mapstructure:"needs_more_detail"`
	Ready           int `mapstructure:"ready"`
	// Action is the score at which the choice set becomes resolvable.
	Action int `mapstructure:"action"`
}

func (t Thresholds) Validate() error {
	if t.NeedsMoreDetail < 0 || t.Ready > 100 || t.NeedsMoreDetail > t.Ready {
		return fmt.Errorf("thresholds out of order: needs_more_detail=%d ready=%d", t.NeedsMoreDetail, t.Ready)
	}
	if t.Action < 0 || t.Action > 100 {
		return fmt.Errorf("action threshold %d outside 0-100", t.Action)
	}
	return nil
}

// Profile holds everything domain specific: required facts, ask order,
// prompts, thresholds and the action set.
type Profile struct {
	Key            string
	IssueType      string
	SubCategory    string
	Guidance       GuidanceKind
	RequiredFields []string
	OptionalFields []string
	Priority       []string
	Prompts        map[string]string
	RequiresAction bool
	Actions        []ActionChoice
	Thresholds     Thresholds
	MinConfidence  float64
}

func (p *Profile) Prompt(field string) string {
	if q, ok := p.Prompts[field]; ok {
		return q
	}
	if q, ok := defaultPrompts[field]; ok {
		return q
	}
	return fmt.Sprintf("Could you tell me more about the %s?", field)
}

func (p *Profile) clone() *Profile {
	cp := *p
	cp.RequiredFields = append([]string(nil), p.RequiredFields...)
	cp.OptionalFields = append([]string(nil), p.OptionalFields...)
	cp.Priority = append([]string(nil), p.Priority...)
	cp.Prompts = make(map[string]string, len(p.Prompts))
	for k, v := range p.Prompts {
		cp.Prompts[k] = v
	}
	cp.Actions = make([]ActionChoice, len(p.Actions))
	for i, a := range p.Actions {
		cp.Actions[i] = a.clone()
	}
	return &cp
}

// Registry resolves domain keys to profiles. Unknown keys resolve to the
// fallback profile.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
	fallback string
}

func NewRegistry(fallback string, profiles ...Profile) (*Registry, error) {
	r := &Registry{profiles: make(map[string]*Profile, len(profiles)), fallback: fallback}
	for i := range profiles {
		p := profiles[i].clone()
		if p.Thresholds.Action == 0 {
			p.Thresholds.Action = p.Thresholds.Ready
		}
		if err := p.Thresholds.Validate(); err != nil {
			return nil, fmt.Errorf("profile %s: %w", p.Key, err)
		}
		r.profiles[p.Key] = p
	}
	if _, ok := r.profiles[fallback]; !ok {
		return nil, fmt.Errorf("fallback profile %q not registered", fallback)
	}
	return r, nil
}

func (r *Registry) Lookup(key string) *Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.profiles[key]; ok {
		return p
	}
	return r.profiles[r.fallback]
}

func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.profiles[key]
	return ok
}

func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.profiles))
	for k := range r.profiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Tune edits a registered profile in place. The edit is rejected when it
// leaves the thresholds inconsistent.
func (r *Registry) Tune(key string, edit func(p *Profile)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.profiles[key]
	if !ok {
		return fmt.Errorf("unknown domain %q", key)
	}
	p := current.clone()
	edit(p)
	if err := p.Thresholds.Validate(); err != nil {
		return fmt.Errorf("profile %s: %w", key, err)
	}
	r.profiles[key] = p
	return nil
}
