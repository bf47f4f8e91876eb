/*
Package observability exports blackboard activity as Prometheus metrics.

Metrics plugs into the hook points of the core and library packages:

	m := observability.NewMetrics(prometheus.DefaultRegisterer)
	r, _ := blackboard.NewRegistry(params, blackboard.WithHooks(m.Hooks()))
	mgr := library.NewManager(store, library.WithHooks(m.LibraryHooks()))
*/
package observability
