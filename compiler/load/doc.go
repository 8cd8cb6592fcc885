// Package load provides the metadata providers that build a schema model.
//
// Three providers are available:
//
//	AtlasProvider  inspects a live MySQL, PostgreSQL or SQLite database
//	FileProvider   reads a YAML schema document
//	CacheProvider  reads a msgpack cache written by SaveCache
//
// Connection failures are reported with the sentinel errors of this package
// so callers can map them with errors.Is. Failures that concern one object
// travel on that object's error chain instead.
package load
