// Package bootstrap starts the client core once every component exists:
// it checks dependencies, installs global handlers and performs the first
// navigation, restoring a persisted session when there is one.
package bootstrap
