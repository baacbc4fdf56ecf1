// Package snapshot implements read access to the on-disk data snapshots.
//
// The snapshots are whole files replaced by the out-of-process collection
// script, so every load re-reads the current file state. A file that is
// missing, unreadable, or structurally invalid is reported as absent; callers
// never see the difference between "not written yet" and "corrupt".
package snapshot
