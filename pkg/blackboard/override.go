package blackboard

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Override replaces one parameter of a registry while it is cloned.
//
// Matching is by name and case-sensitive. Name selects the target; when Name
// is empty the name of Original is used. Identity of Original is never
// compared, since it does not survive earlier clones.
type Override struct {
	Name        string
	Original    *Parameter
	Replacement *Parameter
}

// Target returns the parameter name this override applies to.
func (o Override) Target() string {
	if o.Name != "" {
		return o.Name
	}
	if o.Original != nil {
		return o.Original.name
	}
	return ""
}

// CloneWithOverrides returns an independent copy of the registry in which the
// slots named by overrides hold the supplied replacements.
//
// For every source slot, in order:
//   - an empty slot stays empty;
//   - a slot whose name is targeted holds the replacement itself, whose
//     ownership moves to the clone;
//   - any other slot holds a deep copy of the source parameter.
//
// Unmatched overrides are ignored and reported with a warning and in the
// clone event. The first override for a name wins; overrides without a
// replacement are skipped. A replacement that already belongs to a registry,
// or that was placed in an earlier slot, is copied rather than shared. A
// replacement is renamed to the slot it fills so names stay unique.
func (r *Registry) CloneWithOverrides(overrides []Override) (*Registry, error) {
	if r == nil {
		return nil, fmt.Errorf("clone: %w: registry is nil", ErrInvalidState)
	}
	if err := r.checkIndex(); err != nil {
		return nil, fmt.Errorf("clone %s: %w", r.id, err)
	}

	logger := r.log()

	// 1. Resolve overrides by target name
	replacements := make(map[string]*Parameter, len(overrides))
	for _, o := range overrides {
		target := o.Target()
		if o.Replacement == nil || target == "" {
			continue
		}
		if err := o.Replacement.typed(); err != nil {
			return nil, fmt.Errorf("clone %s: override %q: %w", r.id, target, err)
		}
		if _, dup := replacements[target]; dup {
			logger.Warn("duplicate override ignored", "registry", r.id, "parameter", target)
			continue
		}
		replacements[target] = o.Replacement
	}

	clone := &Registry{
		id:     uuid.NewString(),
		slots:  make([]*Parameter, len(r.slots)),
		hooks:  r.hooks,
		logger: r.logger,
	}
	event := CloneEvent{
		SourceID: r.id,
		CloneID:  clone.id,
		Slots:    len(r.slots),
	}

	// 2. Fill slots in source order
	placed := make(map[*Parameter]struct{}, len(replacements))
	applied := make(map[string]struct{}, len(replacements))
	for i, p := range r.slots {
		if p == nil {
			event.Empty++
			continue
		}

		repl, ok := replacements[p.name]
		if !ok {
			clone.slots[i] = clone.adopt(p.Clone())
			event.Cloned++
			continue
		}

		applied[p.name] = struct{}{}
		clone.slots[i] = clone.adopt(clone.claim(repl, p, placed))
		event.Overridden++
	}

	// 3. Report overrides that matched nothing
	for target := range replacements {
		if _, ok := applied[target]; !ok {
			event.Unmatched = append(event.Unmatched, target)
		}
	}
	if len(event.Unmatched) > 0 {
		sort.Strings(event.Unmatched)
		logger.Warn("overrides matched no parameter",
			"registry", r.id,
			"clone", clone.id,
			"unmatched", event.Unmatched,
		)
	}

	// 4. Index from scratch
	clone.index = clone.buildIndex()

	logger.Debug("registry cloned",
		"registry", r.id,
		"clone", clone.id,
		"slots", event.Slots,
		"overridden", event.Overridden,
		"empty", event.Empty,
	)
	if r.hooks.OnClone != nil {
		r.hooks.OnClone(event)
	}

	return clone, nil
}

// claim decides which parameter fills the slot of source when repl overrides it.
func (r *Registry) claim(repl, source *Parameter, placed map[*Parameter]struct{}) *Parameter {
	logger := r.log()

	if _, reused := placed[repl]; reused {
		logger.Warn("override replacement reused, copying it",
			"clone", r.id, "parameter", source.name)
		repl = repl.Clone()
	} else if repl.owner != nil {
		logger.Warn("override replacement belongs to a registry, copying it",
			"clone", r.id, "parameter", source.name, "owner", repl.owner.id)
		repl = repl.Clone()
	} else {
		placed[repl] = struct{}{}
	}

	if repl.Type() != source.Type() {
		logger.Warn("override replacement changes parameter type",
			"clone", r.id,
			"parameter", source.name,
			"from", source.kindName(),
			"to", repl.kindName(),
		)
	}
	if repl.name != source.name {
		repl.name = source.name
	}
	return repl
}

func (r *Registry) adopt(p *Parameter) *Parameter {
	p.owner = r
	return p
}
