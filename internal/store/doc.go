// Package store persists the current schedule snapshot.
//
// The store holds exactly one live snapshot with full replace-on-write
// semantics: each meaningful change replaces every persisted row with the
// rows of the latest fetch, annotated with a capture timestamp. Two
// implementations exist: RestStore talks to a PostgREST-style row datastore,
// FileStore keeps a local JSON file when a run explicitly opts out of the
// shared datastore.
package store
