// Package schema defines the value kinds a blackboard parameter can hold.
//
// Every kind implements Type: it has a stable name used in documents and
// menus, a validation function, and the concrete Go type stored by
// parameters of that kind. Built-in kinds cover string, int, float, bool,
// duration and slices of those; Of and Custom wrap any other Go type.
//
//	speed := schema.Float()
//	tags, _ := schema.ParseType("[string]")
//
//	v, err := schema.Coerce(tags, []any{"npc", "enemy"})
//	// v is []string{"npc", "enemy"}
//
// A Schema maps names to kinds and validates loosely typed maps, reporting
// every failure at once through AggregateError:
//
//	s := schema.Schema{"speed": schema.Float(), "label": schema.String()}
//	if err := schema.Validate(s, data); err != nil {
//	    for _, e := range schema.ValidationErrors(err) {
//	        log.Println(e)
//	    }
//	}
package schema
