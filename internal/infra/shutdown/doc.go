// Package shutdown coordinates graceful process termination.
//
// A Handler waits for SIGINT, SIGTERM or an explicit Trigger, then runs the
// registered hooks newest first under one deadline:
//
//	h := shutdown.NewHandler(10*time.Second, shutdown.WithLogger(log))
//	h.OnShutdown("http server", server.Shutdown)
//	return h.Wait()
package shutdown
