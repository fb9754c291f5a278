package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: paperpdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  export     Export HTML or Markdown files as single-page PDFs")
	fmt.Fprintln(w, "  sizes      List paper sizes")
	fmt.Fprintln(w, "  canvas     Manage the canvas library")
	fmt.Fprintln(w, "  serve      Run the HTTP API")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'paperpdf help <command>' for details on a specific command.")
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timings")
}

func printStorageFlags(w io.Writer) {
	fmt.Fprintln(w, "Storage:")
	fmt.Fprintln(w, "      --storage <s>         Backend: file, sqlite, memory")
	fmt.Fprintln(w, "      --storage-path <path> Store file or database")
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: paperpdf export <file>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Capture each .html, .htm, .md or .markdown file onto one PDF page.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory")
	fmt.Fprintln(w, "      --name <s>            File name (default: paper-<size>.pdf)")
	fmt.Fprintln(w, "      --canvas <id>         Name the file after a canvas (id or prefix)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel browsers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --paper <s>           Paper size: a5, a4, letter, legal")
	fmt.Fprintln(w, "      --page-policy <s>     Page size: paper, a4")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Capture:")
	fmt.Fprintln(w, "      --scale-policy <s>    Render scale: adaptive, fixed")
	fmt.Fprintln(w, "      --dpr <f>             Device pixel ratio for adaptive scale")
	fmt.Fprintln(w, "  -t, --timeout <d>         Capture timeout (e.g. 30s, 2m)")
	fmt.Fprintln(w, "      --css <path>          Extra CSS file")
	fmt.Fprintln(w, "      --no-cross-origin     Load remote images without CORS")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

func printCanvasUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: paperpdf canvas [action] [args] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Actions:")
	fmt.Fprintln(w, "  list                      List canvases (default)")
	fmt.Fprintln(w, "  new [name]                Create a canvas")
	fmt.Fprintln(w, "  rename <id> <name>        Rename a canvas")
	fmt.Fprintln(w, "  show <id>                 Show a canvas")
	fmt.Fprintln(w, "  delete <id>               Delete a canvas")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ids may be shortened to any unique prefix.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "      --json                Print JSON")
	fmt.Fprintln(w)
	printStorageFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: paperpdf serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the paper catalog, canvases and exports over HTTP.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --addr <host:port>    Listen address")
	fmt.Fprintln(w)
	printStorageFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	w := env.Stdout
	switch args[0] {
	case "export":
		printExportUsage(w)
	case "canvas":
		printCanvasUsage(w)
	case "serve":
		printServeUsage(w)
	case "sizes":
		fmt.Fprintln(w, "Usage: paperpdf sizes [--json]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "List the built-in paper sizes.")
	case "config":
		fmt.Fprintln(w, "Usage: paperpdf config [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Print the effective configuration as YAML.")
		fmt.Fprintln(w)
		printCommonFlags(w)
	case "version":
		fmt.Fprintln(w, "Usage: paperpdf version")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show version information.")
	case "help":
		fmt.Fprintln(w, "Usage: paperpdf help [command]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
