// Package casepatch applies RFC 6902 JSON patches to the entity map of a case
// while restricting which paths a client may touch.
package casepatch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

var (
	ErrInvalidPatch = errors.New("invalid patch")
	ErrPathDenied   = errors.New("path not editable")
)

const (
	OpAdd     = "add"
	OpReplace = "replace"
	OpRemove  = "remove"
	OpTest    = "test"
)

type Operation struct {
	Op    string      `json:"op" validate:"required,oneof=add replace remove test"`
	Path  string      `json:"path" validate:"required,startswith=/"`
	Value interface{} `json:"value,omitempty"`
}

// EntityValue is one field of a case as stored and served.
type EntityValue struct {
	Value     string `json:"value"`
	Denied    bool   `json:"denied"`
	Confirmed bool   `json:"confirmed"`
}

type Entities map[string]EntityValue

// DefaultAllowedPaths lets clients edit values and denial flags of any field.
// Confirmation has its own endpoint and is never patched directly.
var DefaultAllowedPaths = []string{"/*", "/*/value", "/*/denied"}

type Patcher struct {
	allowed map[string]bool
	fields  map[string]bool
}

// New builds a patcher. fields restricts which top-level keys exist; empty
// means any key.
func New(allowedPaths []string, fields []string) *Patcher {
	p := &Patcher{allowed: map[string]bool{}, fields: map[string]bool{}}
	for _, a := range allowedPaths {
		p.allowed[a] = true
	}
	for _, f := range fields {
		p.fields[f] = true
	}
	return p
}

// Apply returns the patched copy of current. Fields whose value or denial
// changed lose their confirmation.
func (p *Patcher) Apply(current Entities, ops []Operation) (Entities, error) {
	if len(ops) == 0 {
		return current, nil
	}
	for i, op := range ops {
		if err := p.check(op); err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
	}

	doc, err := sonic.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("encode entities: %w", err)
	}
	raw, err := sonic.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	patch, err := jsonpatch.DecodePatch(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	patched, err := patch.Apply(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	var out Entities
	if err := sonic.Unmarshal(patched, &out); err != nil {
		return nil, fmt.Errorf("%w: result is not an entity map: %v", ErrInvalidPatch, err)
	}
	if out == nil {
		out = Entities{}
	}

	for name, v := range out {
		old, existed := current[name]
		if !existed || old.Value != v.Value || old.Denied != v.Denied {
			v.Confirmed = false
			out[name] = v
		}
	}
	return out, nil
}

func (p *Patcher) check(op Operation) error {
	switch op.Op {
	case OpAdd, OpReplace, OpRemove, OpTest:
	default:
		return fmt.Errorf("%w: unsupported op %q", ErrInvalidPatch, op.Op)
	}
	if !strings.HasPrefix(op.Path, "/") {
		return fmt.Errorf("%w: path %q must start with /", ErrInvalidPatch, op.Path)
	}

	segments := strings.Split(op.Path[1:], "/")
	field := unescape(segments[0])
	if len(p.fields) > 0 && !p.fields[field] {
		return fmt.Errorf("%w: unknown field %q", ErrPathDenied, field)
	}
	if op.Op == OpTest {
		return nil
	}

	// Allow-list entries use * for the field segment.
	segments[0] = "*"
	pattern := "/" + strings.Join(segments, "/")
	if !p.allowed[pattern] && !p.allowed[op.Path] {
		return fmt.Errorf("%w: %s", ErrPathDenied, op.Path)
	}
	return nil
}

func unescape(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}

// Completeness is the share of confirmed fields, 0 when there are none.
func Completeness(e Entities) float64 {
	if len(e) == 0 {
		return 0
	}
	confirmed := 0
	for _, v := range e {
		if v.Confirmed {
			confirmed++
		}
	}
	f, _ := strconv.ParseFloat(fmt.Sprintf("%.4f", float64(confirmed)/float64(len(e))), 64)
	return f
}
