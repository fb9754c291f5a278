package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/alnah/go-paperpdf/internal/canvas"
	"github.com/alnah/go-paperpdf/internal/config"
)

// runCanvas manages the persisted canvas library:
// list, new [name], rename <id> <name>, show <id>, delete <id>.
func runCanvas(args []string, env *Environment) error {
	f, rest, err := parseCanvasFlags(args)
	if err != nil {
		return err
	}

	action := "list"
	if len(rest) > 0 {
		action, rest = rest[0], rest[1:]
	}

	s, err := openSession(&f.common, env, func(cfg *config.Config) {
		mergeStorageFlags(cfg, f.backend, f.path)
	})
	if err != nil {
		return err
	}
	lib, release, err := s.openLibrary()
	if err != nil {
		return err
	}
	defer release()

	switch action {
	case "list", "ls":
		return printCanvases(env.Stdout, lib.Canvases(), f.json)

	case "new", "create":
		rec := lib.Create(strings.Join(rest, " "))
		return printCanvas(env.Stdout, rec, f.json, "Created")

	case "rename":
		if len(rest) < 2 {
			return fmt.Errorf("%w: canvas rename <id> <name>", ErrUsage)
		}
		id, err := matchCanvas(lib, rest[0])
		if err != nil {
			return err
		}
		rec, _ := lib.Rename(id, strings.Join(rest[1:], " "))
		return printCanvas(env.Stdout, rec, f.json, "Renamed")

	case "show":
		if len(rest) != 1 {
			return fmt.Errorf("%w: canvas show <id>", ErrUsage)
		}
		id, err := matchCanvas(lib, rest[0])
		if err != nil {
			return err
		}
		rec, _ := lib.Get(id)
		return printCanvas(env.Stdout, rec, f.json, "")

	case "delete", "rm":
		if len(rest) != 1 {
			return fmt.Errorf("%w: canvas delete <id>", ErrUsage)
		}
		id, err := matchCanvas(lib, rest[0])
		if err != nil {
			return err
		}
		lib.Delete(id)
		if !f.common.quiet {
			fmt.Fprintf(env.Stdout, "Deleted %s\n", id)
		}
		return nil
	}

	return fmt.Errorf("%w: unknown canvas action %q", ErrUsage, action)
}

// matchCanvas resolves an exact id or a unique id prefix.
func matchCanvas(lib *canvas.Library, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty id", ErrCanvasNotFound)
	}
	if rec, ok := lib.Get(ref); ok {
		return rec.ID, nil
	}

	var matches []string
	for _, rec := range lib.Canvases() {
		if strings.HasPrefix(rec.ID, ref) {
			matches = append(matches, rec.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrCanvasNotFound, ref)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("%w: %s (%d matches)", ErrAmbiguousCanvas, ref, len(matches))
}

func printCanvases(w io.Writer, records []canvas.Record, asJSON bool) error {
	if asJSON {
		return writeJSON(w, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "No canvases yet. Create one with: paperpdf canvas new <name>")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tUPDATED")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Name, r.UpdatedAt)
	}
	return tw.Flush()
}

func printCanvas(w io.Writer, rec canvas.Record, asJSON bool, verb string) error {
	if asJSON {
		return writeJSON(w, rec)
	}
	if verb != "" {
		fmt.Fprintf(w, "%s %s %q\n", verb, rec.ID, rec.Name)
		return nil
	}
	fmt.Fprintf(w, "ID:      %s\nName:    %s\nCreated: %s\nUpdated: %s\n", rec.ID, rec.Name, rec.CreatedAt, rec.UpdatedAt)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
