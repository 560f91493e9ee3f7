// Package main provides the entry point for the plexicon CLI.
//
// plexicon picks a random word starting with a chosen letter in English,
// Spanish or Italian and reveals it, then its definition, after a short
// suspense delay. It keeps a persistent count of discovered words.
//
// Usage:
//
//	plexicon play
//	plexicon discover --letter Q --language English
//	plexicon serve
//
// See --help for all available options.
package main

func main() {
	Execute()
}
