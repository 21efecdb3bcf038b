// Package api provides the HTTP layer of the OtakuBantu API.
// It uses the Huma framework on a chi router for automatic OpenAPI
// documentation and request decoding.
//
// # Architecture
//
// - server.go: router, CORS, middleware and Huma configuration
// - handlers/: one operation per resolution kind, plus /health
// - dto/: request parameters, response envelope and mappers
// - middleware/: client identity and request logging
//
// # Endpoints
//
//	GET /search?q=&page=
//	GET /anime/{id}
//	GET /watch/{episodeId}
//	GET /popular
//	GET /recent?page=
//	GET /genre/{genre}?page=
//	GET /health
//	GET /metrics
//
// The OpenAPI spec is served at /openapi.json and the docs UI at /docs.
//
// # Responses
//
// Every resolution endpoint returns the same envelope. When a mirror or a
// scraped source answered, fallback is true and source names it. When no
// source had data the response is still 200:
//
//	{"fallback": true, "cached": false, "hasNextPage": false, "items": []}
//
// Malformed requests get 400 and clients over their window get 429 with a
// Retry-After header, both in the RFC 7807 format Huma produces.
package api
