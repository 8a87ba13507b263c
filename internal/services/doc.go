// Package services holds the application logic between the transports and
// the athlete pipeline.
//
// DashboardService owns the current *dataprocessing.Dataset behind an
// atomic pointer. HTTP handlers, WebSocket sessions and the CLI all call the
// same two event handlers:
//
//	view, err := svc.OnAthleteSelected(ctx, services.SourceHTTP, "Sam Taylor")
//	report, err := svc.OnInsightsRequested(ctx, "Sam Taylor")
//
// An unknown athlete yields *AthleteNotFoundError carrying name suggestions;
// it matches ErrAthleteNotFound with errors.Is. Before the first successful
// Reload every call fails with ErrDatasetUnavailable.
//
// HealthService reports liveness, readiness (a dataset is loaded) and build
// information.
package services
