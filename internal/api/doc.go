// ABOUTME: Package documentation for the api package
// ABOUTME: Describes the HTTP surface and its error conventions

// Package api implements the devconnect HTTP/JSON surface.
//
// Routes are registered on an httprouter mux. Registration and login
// are public; everything that reads or writes on behalf of a caller
// sits behind the bearer-token gate in internal/auth. Single errors
// are returned as {"error": msg}; field validation failures as
// {"errors": [{"msg": ...}, ...]} with status 400.
package api
