// Package server exposes scenes over HTTP.
//
// Each session owns a [scene.Actor] driven by its own frame scheduler, so
// handler writes and frame steps never race. Sessions expire after a period
// without requests.
//
// # Routes
//
//	POST   /v1/sessions                 create from {state | steps, viewport}
//	GET    /v1/sessions/{id}            status
//	DELETE /v1/sessions/{id}
//	PUT    /v1/sessions/{id}/state      replace the structure
//	POST   /v1/sessions/{id}/pointer    {action: down|move|up, x, y}
//	POST   /v1/sessions/{id}/hand       {landmarks: [{x, y}]} or {lost: true}
//	POST   /v1/sessions/{id}/camera     {status}
//	POST   /v1/sessions/{id}/timeline   {action: play|pause|next|prev|seek, index}
//	GET    /v1/sessions/{id}/frame      JSON frame
//	GET    /v1/sessions/{id}/frame.svg  SVG frame
//	GET    /v1/sessions/{id}/frame.dot  Graphviz DOT frame
//	GET    /healthz
//	GET    /metrics
//
// Errors are written as {"code": ..., "message": ...} with a status derived
// from the error code.
package server
