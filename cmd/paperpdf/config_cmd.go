package main

import (
	"fmt"

	"github.com/alnah/go-paperpdf/internal/config"
)

// runConfigCmd prints the effective configuration as YAML, after the
// config file and PAPERPDF_* variables are applied.
func runConfigCmd(args []string, env *Environment) error {
	f, rest, err := parseConfigFlags(args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: config takes no arguments", ErrUsage)
	}

	s, err := openSession(f, env, nil)
	if err != nil {
		return err
	}

	out, err := config.Marshal(s.cfg)
	if err != nil {
		return err
	}
	_, err = env.Stdout.Write(out)
	return err
}
