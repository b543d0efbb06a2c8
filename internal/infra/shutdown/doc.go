// Package shutdown coordinates process exit for the CLI: a context that is
// cancelled on SIGINT or SIGTERM, and cleanup hooks (closing the session
// store, flushing REPL history) that run exactly once.
//
//	ctx, stop := shutdown.WithSignals(context.Background())
//	defer stop()
//	h := shutdown.NewHandler(5 * time.Second)
//	defer h.Run()
package shutdown
