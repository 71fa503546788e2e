package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

type versionCmd struct {
	*root
	stdout io.Writer
}

func (v *versionCmd) FlagSet() *flag.FlagSet { return nil }

func (v *versionCmd) Run() error {
	out := v.stdout
	if out == nil {
		out = os.Stdout
	}
	line := fmt.Sprintf("%s version %s", strings.Fields(v.Program())[0], version)
	if c := strings.TrimSpace(commit); c != "" {
		line += " (commit " + c + ")"
	}
	if d := strings.TrimSpace(date); d != "" {
		line += " built " + d
	}
	fmt.Fprintln(out, line)
	return nil
}
