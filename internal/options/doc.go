// Package options resolves the nearest-expiration CALL/PUT set for an
// underlying ticker from the derivatives snapshot.
//
// "Nearest expiration" is computed per side: the CALL group and the PUT group
// each keep only their own earliest future expiration, so the two sides may
// resolve to different dates.
package options
