// Package http implements the JSON API of the athlete dashboard.
//
// Handlers are thin: they validate path and query parameters, call the
// dashboard service and render the result. Successful responses share one
// envelope:
//
//	{"status": "success", "data": ...}
//
// Every error is rendered by errors.ErrorHandler as RFC 7807 problem details.
// An unknown athlete is a 404 whose body lists the closest known names:
//
//	{
//	    "type": "/errors/athlete/not-found",
//	    "title": "Not Found",
//	    "status": 404,
//	    "detail": "athlete \"Alex Smyth\" not found",
//	    "instance": "/api/athletes/Alex%20Smyth",
//	    "suggestions": ["Alex Smith"],
//	    "trace_id": "..."
//	}
//
// # Routes
//
//	GET  /api/athletes                          athlete names
//	GET  /api/athletes/{name}                   athlete selected
//	GET  /api/athletes/{name}/insights          insights requested
//	GET  /api/athletes/{name}/monthly           monthly means (?metrics=a,b)
//	GET  /api/athletes/{name}/recent-games.csv  recent games download
//	GET  /api/athletes/{name}/monthly.csv       monthly means download
//	GET  /api/athletes/{name}/report.xlsx       athlete workbook download
//	GET  /api/dataset                           build report
//	POST /api/reload                            re-ingest and swap the dataset
//	GET  /api/export/filtered.csv               filtered table download
//	GET  /api/health, /api/health/ready, /api/health/live, /api/version
//	GET  /metrics                               Prometheus
//
// # Testing
//
// Handlers are tested with httptest against testify mocks of the service
// interfaces.
package http
