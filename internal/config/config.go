package config

// Options holds run-wide configuration for a brutecli invocation. Per-job
// settings live in Job.
type Options struct {
	// Batch
	BatchFile string // empty = interactive wizard
	Loop      bool
	Delay     int // seconds between batch rounds

	// Output
	OutputFile   string
	OutputFormat string // "text", "json", "csv"
	Quiet        bool
	NoColor      bool

	// Network
	Proxy     string  // socks5://host:port for ssh/ftp, any net/http proxy URL for http
	Rate      float64 // attempts per second per job, 0 = unlimited
	UserAgent string  // http only

	// Hooks and history
	OnSuccessCmd string
	DBPath       string // sqlite run history, empty = disabled
}

// DefaultDelay is the pause between batch rounds in seconds.
const DefaultDelay = 300
