// Package postgrest is the REST client for the PostgREST (Supabase) backend.
//
// The backend endpoint is injected as a config.Backend. Every request
// carries the API key, a bearer token and a request id; write requests are
// handed to an optional Recorder for the local history.
//
// Typed helpers decode responses:
//
//	projects, err := postgrest.Get[[]types.Project](ctx, c, postgrest.Path("projects", postgrest.Select()))
//	saved, err := postgrest.Post[types.Project](ctx, c, "/rest/v1/projects", dto)
//
// Non-2xx responses are returned as *StatusError. A missing row surfaces as
// ErrNotFound through errors.Is.
package postgrest
