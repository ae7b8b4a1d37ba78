// Package server hosts the interactive chart in a browser.
//
// The server owns the family tree and one [session.Session] per open page.
// The page is a thin host: it posts clicks, receives wire plans and plays
// them with d3 transitions. Transitions are keyed by element id, so a plan
// that arrives mid-animation retargets the running transitions instead of
// restarting them.
//
// # Routes
//
//	GET    /                               chart page
//	GET    /assets/*                       page scripts and styles
//	POST   /api/sessions                   new session and its first plan
//	POST   /api/sessions/{sid}/toggle/{id} click a node
//	GET    /api/sessions/{sid}/bio/{id}    hover a node
//	DELETE /api/sessions/{sid}             close a session
//	GET    /api/export.{format}            render through the pipeline
//	GET    /events                         reload notifications (SSE)
//	GET    /healthz                        liveness
//
// # Background work
//
// [Server.Run] serves HTTP, sweeps expired sessions and, for file sources,
// watches the input file. All three run in one errgroup bound to the
// caller's context; the first failure stops the others.
package server
