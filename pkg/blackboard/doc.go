/*
Package blackboard implements a named, typed parameter registry.

A Registry is an ordered collection of Parameters with name lookup. Each
Parameter holds a value whose Go type is fixed when the parameter is created;
typed access through Get and Set fails with ErrTypeMismatch instead of
coercing.

# Templates and instances

Registries are authored once as templates and cloned per execution context.
A clone shares no mutable state with its source. CloneWithOverrides swaps
selected parameters for caller supplied replacements while every other slot is
deep-copied:

	speed := blackboard.New("speed", 5.0)
	label := blackboard.New("label", "npc")
	template, _ := blackboard.NewRegistry([]*blackboard.Parameter{speed, label})

	fast := blackboard.New("speed", 9.0)
	instance, _ := template.CloneWithOverrides([]blackboard.Override{
		{Name: "speed", Replacement: fast},
	})

	p, _ := instance.Parameter("speed") // p == fast

Overrides match by exact parameter name. Overrides that match nothing are
ignored; they are logged at warning level and listed in the CloneEvent passed
to Hooks.OnClone.

# Views

ReadOnly and WriteOnly bind to a single parameter and expose only its getter
or setter, so node code can be handed exactly the capability it needs.

A Registry is not safe for concurrent use.
*/
package blackboard
