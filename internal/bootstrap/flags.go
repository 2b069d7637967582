package bootstrap

import (
	"flag"
	"fmt"
	"io"

	"github.com/yigit/edutrack/internal/config"
)

const usageText = `Usage: initdb [flags]

Creates the edutrack database and its tables on the MySQL server given by
MYSQL_HOST, MYSQL_PORT, MYSQL_USER and MYSQL_PASSWORD.

Exit status is 1 when the server cannot be reached, the database cannot be
created, or the connection is lost while creating tables. A lost connection
stops table creation at that table; later tables are not attempted. Other
table errors are printed and skipped, and only fail the run with -strict.

Flags:
`

// Options are the command line switches of cmd/initdb
type Options struct {
	ConfigPath string
	Strict     bool
	Verify     bool
}

// ParseFlags parses args (without the program name)
func ParseFlags(args []string, output io.Writer) (Options, error) {
	var opts Options

	fs := flag.NewFlagSet("initdb", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.ConfigPath, "config", config.DefaultPath, "Path to optional YAML config file")
	fs.BoolVar(&opts.Strict, "strict", false, "Fail when any table cannot be created")
	fs.BoolVar(&opts.Verify, "verify", false, "Check tables and foreign keys in information_schema after creation")

	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usageText)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}
	return opts, nil
}
