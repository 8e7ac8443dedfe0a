// Package schedule defines the in-memory model of the monitored schedule
// table and the change-detection primitives over it.
//
// A Table is an ordered sequence of Rows sharing one header-derived column
// set. Diff classifies rows as added or removed by comparing key-column
// values between two snapshots; Fingerprint provides a cheap content digest
// used to short-circuit runs where nothing changed at all.
package schedule
