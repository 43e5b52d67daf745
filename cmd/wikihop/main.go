// Package main provides the entry point for the wikihop CLI.
//
// wikihop lists every Wikipedia article within a number of link hops of a
// starting article, grouped by distance.
//
// Usage:
//
//	wikihop <article> <hops>
//	wikihop random <hops>
//
// See --help for all available options.
package main

// main is the entry point for wikihop.
func main() {
	Execute()
}
