package runner

// Cargo invocation constants
const (
	// DefaultCargoBinary is used when no binary is configured
	DefaultCargoBinary = "cargo"

	// Cargo subcommand and libtest argument separator
	TestCommand  = "test"
	ArgSeparator = "--"

	// Libtest reporter flags. The JSON report is an unstable libtest
	// feature; see BootstrapEnv below for how it is unlocked.
	UnstableOptionsFlag = "-Z"
	UnstableOptionsName = "unstable-options"
	FormatFlag          = "--format"
	FormatJSON          = "json"
	FormatTerse         = "terse"
	ListFlag            = "--list"
	ReportTimeFlag      = "--report-time"

	// BootstrapEnv enables unstable libtest features on a stable
	// toolchain. This is a deliberate, documented escape hatch: without
	// it the JSON reporter is rejected outside nightly.
	BootstrapEnv = "RUSTC_BOOTSTRAP=1"

	// SignalSentinelCode is reported when the subprocess was killed by a
	// signal and left no exit code to mirror.
	SignalSentinelCode = 1

	// List output markers produced by --list --format terse
	testSuffix  = ": test"
	benchSuffix = ": bench"

	// maxLineBytes bounds one JSON report line. A failed test's full
	// captured output is embedded in a single line, so the default
	// bufio.Scanner limit is far too small.
	maxLineBytes = 16 * 1024 * 1024
)
