package config

import (
	"flag"

	"github.com/dmitrijs2005/gophlibrary/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
//	-d string     database DSN
//	-a string     web bind address (e.g. ":8080")
//	-l duration   session lifetime (e.g. "12h")
//	-m int        loan limit per member
//	-block-termination
//	              refuse to end memberships with outstanding loans
//	-v string     log level
//	-f string     log format
//
// Only these flags are looked at, so -c / -config and anything else on the
// command line are left alone.
func parseFlags(config *Config, args []string) {
	filtered := flagx.FilterArgs(args,
		[]string{"-d", "-a", "-l", "-m", "-v", "-f"},
		"-block-termination",
	)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run the web server")
	fs.DurationVar(&config.SessionLifetime, "l", config.SessionLifetime, "web session lifetime")
	fs.IntVar(&config.LoanLimit, "m", config.LoanLimit, "maximum simultaneous loans per member")
	fs.BoolVar(&config.BlockTerminationWithLoans, "block-termination", config.BlockTerminationWithLoans, "refuse to end memberships with outstanding loans")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format (text, json)")

	if err := fs.Parse(filtered); err != nil {
		panic(err)
	}
}
