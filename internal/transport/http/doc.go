// Package http provides transport middlewares for reqcheck sessions:
// User-Agent injection and the default client construction.
package http
