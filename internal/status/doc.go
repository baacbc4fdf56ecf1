// Package status composes snapshot metadata and update state into a single
// freshness view. Status never fails: an absent snapshot reports
// available=false rather than an error.
package status
