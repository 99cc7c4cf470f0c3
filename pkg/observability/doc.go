/*
Package observability turns workspace lifecycle events into metrics and logs.

Metrics records operator invocations, their latency, empty results and graph
recomputes as Prometheus collectors. LoggingHooks writes the same events as
structured log records. Both produce domain.LifecycleHooks and combine with
domain.JoinHooks:

	m := observability.NewMetrics(prometheus.DefaultRegisterer)
	ws := heddle.New(heddle.WithLifecycleHooks(domain.JoinHooks(m.Hooks(), observability.LoggingHooks(logger))))
*/
package observability
