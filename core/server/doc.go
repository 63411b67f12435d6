// Package server wraps http.Server with graceful shutdown and lifecycle
// helpers suited to errgroup-managed applications.
//
// Basic usage:
//
//	s := server.New(":8080", server.WithLogger(log))
//
//	eg, ctx := errgroup.WithContext(ctx)
//	eg.Go(s.Run(ctx, handler))
//	if err := eg.Wait(); err != nil {
//	    log.Error("server failed", logger.Error(err))
//	}
//
// Configuration can also come from the environment via Config and
// NewFromConfig.
package server
