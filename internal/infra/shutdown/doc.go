// Package shutdown runs cleanup hooks when the process receives SIGINT
// or SIGTERM, or when shutdown is triggered explicitly.
//
// Usage:
//
//	h := shutdown.NewHandler(30 * time.Second)
//	h.OnShutdown(srv.Shutdown)
//	if err := h.Wait(ctx); err != nil {
//		// a hook failed or the timeout expired
//	}
//
// Hooks run in reverse order of registration under one context bounded
// by the handler's timeout.
package shutdown
