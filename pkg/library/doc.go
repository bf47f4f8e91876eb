/*
Package library stores registry templates and instantiates them.

A Manager sits on a ports.TemplateStore. Publishing encodes a registry into a
snapshot document; instantiating loads the document, decodes it into a fresh
template registry and clones it with overrides built from loose values:

	mgr := library.NewManager(file.New("templates"))
	_ = mgr.Publish(ctx, "guard", template)

	inst, err := mgr.Instantiate(ctx, "guard", map[string]any{"speed": 9})

Operations on the same template name are serialized in-process, and across
processes when a DistributedLocker is configured.
*/
package library
