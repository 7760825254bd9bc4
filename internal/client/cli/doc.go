// Package cli implements the fitkeeper command line.
//
// Every command opens the app on the configured storage, resumes the saved
// session unless --offline is given, runs against the local stores and
// closes the app, which waits for pending remote mutations.
package cli
