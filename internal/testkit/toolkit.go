package testkit

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"rxcheck/domain/reaction"
	"rxcheck/ports"
)

// Toolkit is a scripted, in-memory ports.ChemistryToolkit. Notations are
// rejected unless registered with Accept, and reaction templates produce
// nothing unless registered with React.
type Toolkit struct {
	mu sync.Mutex

	accepted  map[string]string // notation -> canonical
	rejected  map[string]string // notation -> toolkit message
	reactions map[string][][]string

	ParseErr    error
	ReactionErr error

	ParseCalls    []string
	ReactionCalls []string
	live          map[string]bool
	Released      []string
}

// NewToolkit creates an empty scripted toolkit
func NewToolkit() *Toolkit {
	return &Toolkit{
		accepted:  make(map[string]string),
		rejected:  make(map[string]string),
		reactions: make(map[string][][]string),
		live:      make(map[string]bool),
	}
}

// Accept registers notations that parse, canonicalizing to themselves.
func (k *Toolkit) Accept(notations ...string) *Toolkit {
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, n := range notations {
		k.accepted[n] = n
	}
	return k
}

// AcceptAs registers a notation whose canonical form differs from its input.
func (k *Toolkit) AcceptAs(notation, canonical string) *Toolkit {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.accepted[notation] = canonical
	k.accepted[canonical] = canonical
	return k
}

// Reject registers a notation that fails to parse with the given message.
func (k *Toolkit) Reject(notation, message string) *Toolkit {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.rejected[notation] = message
	return k
}

// React registers the candidate product sets (as canonical notations) the
// engine returns for template.
func (k *Toolkit) React(template string, candidates ...[]string) *Toolkit {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.reactions[template] = candidates
	return k
}

// Parse implements ports.StructureParser
func (k *Toolkit) Parse(ctx context.Context, notation string) (ports.ParseResult, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.ParseCalls = append(k.ParseCalls, notation)
	if k.ParseErr != nil {
		return ports.ParseResult{}, k.ParseErr
	}
	if canonical, ok := k.accepted[notation]; ok {
		handle := "mol:" + canonical
		k.live[handle] = true
		return ports.ParseResult{OK: true, Structure: reaction.Structure{Handle: handle}, Canonical: canonical}, nil
	}
	return ports.ParseResult{OK: false, Message: k.rejected[notation]}, nil
}

// Canonicalize implements ports.Canonicalizer
func (k *Toolkit) Canonicalize(ctx context.Context, s reaction.Structure) (string, error) {
	if !strings.HasPrefix(s.Handle, "mol:") {
		return "", fmt.Errorf("unknown structure handle %q", s.Handle)
	}
	return strings.TrimPrefix(s.Handle, "mol:"), nil
}

// RunReactants implements ports.ReactionEngine
func (k *Toolkit) RunReactants(ctx context.Context, template string, reactants []reaction.Structure) ([][]reaction.Structure, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.ReactionCalls = append(k.ReactionCalls, template)
	if k.ReactionErr != nil {
		return nil, k.ReactionErr
	}
	var out [][]reaction.Structure
	for _, set := range k.reactions[template] {
		products := make([]reaction.Structure, len(set))
		for i, p := range set {
			products[i] = reaction.Structure{Handle: "mol:" + p}
		}
		out = append(out, products)
	}
	return out, nil
}

// Release implements ports.StructureReleaser
func (k *Toolkit) Release(ctx context.Context, structures ...reaction.Structure) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, s := range structures {
		k.Released = append(k.Released, s.Handle)
		delete(k.live, s.Handle)
	}
	return nil
}

// LiveHandles returns how many parsed handles have not been released.
func (k *Toolkit) LiveHandles() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.live)
}

// ReactionCallCount returns how many times the engine ran.
func (k *Toolkit) ReactionCallCount() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.ReactionCalls)
}
