package main

import (
	"fmt"
	"text/tabwriter"

	paperpdf "github.com/alnah/go-paperpdf"
)

// runSizes lists the paper size catalog.
func runSizes(args []string, env *Environment) error {
	f, rest, err := parseSizesFlags(args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: sizes takes no arguments", ErrUsage)
	}

	sizes := paperpdf.PaperSizes()
	if f.json {
		return writeJSON(env.Stdout, sizes)
	}

	def := paperpdf.DefaultPaperSize().ID
	tw := tabwriter.NewWriter(env.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tORIENTATION\tUSE")
	for _, p := range sizes {
		id := p.ID
		if id == def {
			id += " (default)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", id, p.Label, p.Orientation(), p.Description)
	}
	return tw.Flush()
}
