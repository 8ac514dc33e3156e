// Package models defines the entities the covy client holds in its State
// Store and exchanges with the remote API: users, CV profiles, cover
// letters, the persisted session snapshot and the transient loading state.
//
// Identifiers are assigned by the remote service. A zero ID means the entity
// is a local draft that has not been confirmed by the server yet.
package models
