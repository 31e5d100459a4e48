// Package api provides the REST interface to the game service.
//
// Routes are mounted under /api:
//
//	POST   /api/sessions                  create a session (optional level_id)
//	GET    /api/sessions                  list sessions (sort, order, limit)
//	GET    /api/sessions/{id}             session info with current snapshot
//	DELETE /api/sessions/{id}             delete a session
//	GET    /api/sessions/{id}/snapshot    current snapshot only
//	POST   /api/sessions/{id}/command     apply one command
//	GET    /api/sessions/{id}/reachable   reachable set for the unit at ?x=&y=
//	GET    /api/sessions/{id}/history     paginated command history
//	GET    /api/levels                    level catalog
//	POST   /api/levels                    save a level
//	GET    /api/levels/{name}             one level configuration
//	GET    /ws?session={id}               WebSocket snapshot stream
//
// A rejected command is not a transport failure: the handler responds 200
// with applied=false and the rejection reason, mirroring the service
// contract. Transport failures (unknown session, malformed request) use
// conventional status codes.
package api
