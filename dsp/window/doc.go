// Package window generates the analysis windows the spectrum analyzer can
// apply before its transform.
//
// Windows are symmetric by default; the analyzer uses [WithPeriodic] so the
// window period equals the frame length.
package window
