package catalog

import "github.com/aretw0/blackboard/pkg/schema"

// Default returns a catalog holding the built-in kinds.
func Default() *Catalog {
	c := New()
	c.MustRegister(
		Kind{Type: schema.Bool(), MenuPath: "Basic/Bool", GroupLevel: 0},
		Kind{Type: schema.Int(), MenuPath: "Basic/Int", GroupLevel: 1},
		Kind{Type: schema.Float(), MenuPath: "Basic/Float", GroupLevel: 1},
		Kind{Type: schema.String(), MenuPath: "Basic/String", GroupLevel: 2},
		Kind{Type: schema.Duration(), MenuPath: "Basic/Duration", GroupLevel: 3},

		Kind{Type: schema.Slice(schema.Bool()), MenuPath: "Basic/Lists/Bool List", GroupLevel: 0},
		Kind{Type: schema.Slice(schema.Int()), MenuPath: "Basic/Lists/Int List", GroupLevel: 1},
		Kind{Type: schema.Slice(schema.Float()), MenuPath: "Basic/Lists/Float List", GroupLevel: 1},
		Kind{Type: schema.Slice(schema.String()), MenuPath: "Basic/Lists/String List", GroupLevel: 2},
	)
	return c
}
