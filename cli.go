package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

var (
	errUsage         = errors.New("usage: wmlaunchbutton [-log] [-config file] [-shell sh] [--] image [image [image]] command")
	errEmptyArgument = errors.New("empty argument")
)

type CLIOpts struct {
	doLog      bool
	configPath string
	shell      string
	images     []string
	command    string
}

// parseCLIOpts parses the arguments after the program name.
func parseCLIOpts(args []string, output io.Writer) (CLIOpts, error) {
	var opt CLIOpts
	fs := flag.NewFlagSet("wmlaunchbutton", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.BoolVar(&opt.doLog, "log", false, "Print debugging output to stdout")
	fs.StringVar(&opt.configPath, "config", "", "Read settings from this TOML file")
	fs.StringVar(&opt.shell, "shell", "", "Shell used to run the command (default from config, else sh)")
	if err := fs.Parse(args); err != nil {
		return opt, fmt.Errorf("%w: %v", errUsage, err)
	}

	rest := fs.Args()
	if len(rest) < 2 || len(rest) > 4 {
		return opt, errUsage
	}
	for _, arg := range rest {
		if arg == "" {
			return opt, errEmptyArgument
		}
	}
	opt.images = rest[:len(rest)-1]
	opt.command = rest[len(rest)-1]
	return opt, nil
}
