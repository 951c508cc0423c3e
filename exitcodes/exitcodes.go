// Package exitcodes defines the standard exit codes used by cargo-subunit.
package exitcodes

// Exit code constants used by cargo-subunit
// These constants define the exit codes that the application uses to indicate
// various states when it exits:
//
// * Success (0): Used when the cargo test run completes with all tests passing
// * TestFailure (1): Used when the run fails without a usable cargo exit code
// * RuntimeErr (2): Used for runtime errors such as bad flags, unreadable test
//   list files or a cargo binary that cannot be spawned
//
// When cargo test itself exits nonzero, that exact code is mirrored instead.
const (
	Success     = 0 // Run completed, all tests pass
	TestFailure = 1 // Test failures
	RuntimeErr  = 2 // Runtime errors
)
