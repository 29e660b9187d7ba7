package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophlibrary/internal/flagx"
	"github.com/dmitrijs2005/gophlibrary/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Absent keys
// leave the current value untouched.
type JsonConfig struct {
	DatabaseDSN               string          `json:"database_dsn"`
	HTTPAddr                  string          `json:"http_addr"`
	SessionLifetime           *timex.Duration `json:"session_lifetime"`
	LoanLimit                 int             `json:"loan_limit"`
	BlockTerminationWithLoans *bool           `json:"block_termination_with_loans"`
	LogLevel                  string          `json:"log_level"`
	LogFormat                 string          `json:"log_format"`
}

// parseJson overlays values from the file named by -c / -config. Nothing
// happens when neither flag is given; an unreadable or invalid file panics.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.ConfigPath(args)
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.HTTPAddr != "" {
		config.HTTPAddr = c.HTTPAddr
	}
	if c.SessionLifetime != nil {
		config.SessionLifetime = c.SessionLifetime.Duration
	}
	if c.LoanLimit != 0 {
		config.LoanLimit = c.LoanLimit
	}
	if c.BlockTerminationWithLoans != nil {
		config.BlockTerminationWithLoans = *c.BlockTerminationWithLoans
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
	if c.LogFormat != "" {
		config.LogFormat = c.LogFormat
	}
}
