package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/ajxlib/ajx"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "check":
		if err := runCheck(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "prune":
		if err := runPrune(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("ajx version %s\n", ajx.Version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ajx - AJAX plugin and code-generation core for Go

Usage:
  ajx <command> [arguments]

Commands:
  check <options.yaml>   Load an options file and report export capability
  prune <options.yaml>   Remove hash-named bundles from the export directory
  version                Print version
  help                   Show this help

Options for prune:
  --dry-run              List files without removing them

The configured final bundle file (js.app.file) is never pruned; the
operator owns its lifecycle.`)
}

func loadOptions(path string) (*ajx.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	opts := ajx.NewOptions()
	if filepath.Ext(path) == ".json" {
		err = opts.LoadJSON(data)
	} else {
		err = opts.LoadYAML(data)
	}
	if err != nil {
		return nil, err
	}
	return opts, nil
}

func runCheck(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("check requires an options file")
	}
	opts, err := loadOptions(args[0])
	if err != nil {
		return err
	}

	exp := ajx.NewExporter(opts, nil, nil)
	fmt.Printf("export capability: %v\n", exp.CanExport())
	for _, key := range []string{
		"js.lib.uri", "js.app.export", "js.app.extern", "js.app.uri",
		"js.app.dir", "js.app.file", "js.app.minify",
	} {
		if opts.Has(key) {
			fmt.Printf("  %s = %v\n", key, opts.Get(key, nil))
		}
	}
	return nil
}

// bundlePattern matches files the export cache creates from content hashes.
var bundlePattern = regexp.MustCompile(`^[0-9a-f]{32}(\.min)?\.js$`)

func runPrune(args []string) error {
	var dryRun bool
	var paths []string
	for _, arg := range args {
		if arg == "--dry-run" {
			dryRun = true
		} else {
			paths = append(paths, arg)
		}
	}
	if len(paths) != 1 {
		return fmt.Errorf("prune requires an options file")
	}

	opts, err := loadOptions(paths[0])
	if err != nil {
		return err
	}
	dir := opts.String("js.app.dir", "")
	if dir == "" {
		return fmt.Errorf("js.app.dir is not configured")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !bundlePattern.MatchString(entry.Name()) {
			continue
		}
		if dryRun {
			fmt.Printf("would remove %s\n", entry.Name())
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
		fmt.Printf("removed %s\n", entry.Name())
	}
	return nil
}
