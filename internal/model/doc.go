// Package model defines the result structures shared by the CLI and the
// report writers.
//
// This package contains the following main types:
//   - HopGraph: the finished layers and redirects around one origin article
//   - Summary: counters derived from a HopGraph for quick review
//
// The calculator produces raw endpoints; decoding them into display names is
// left to the report writers.
package model
