package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alexflint/go-arg"

	duplicatescanner "github.com/Micrified/duplicateScanner/pkg"
)

// chainTimeFormat mirrors ctime(3) output, minus the trailing newline
const chainTimeFormat = time.ANSIC

const menuText = "\n- Search duplicates by name: s\n" +
	"- Print file table contents: a\n" +
	"- Quit (cleanly)           : q\n"

type args struct {
	Paths      []string `arg:"positional,required" help:"directories or files to scan"`
	Config     string   `arg:"--config" help:"path to INI config file"`
	IgnoreFile string   `arg:"--ignore-file" help:"file of glob patterns to skip while scanning"`
	Symlinks   string   `arg:"--symlinks" help:"symlink handling: none|follow"`
	Buckets    int64    `arg:"--buckets" help:"hash table bucket count"`
	Verbose    int      `arg:"-v,--verbose" default:"-1" help:"verbose level (0-3)"`
	Debug      string   `arg:"--debug" help:"comma-separated debug flags (scan,watch,registry)"`
	Watch      bool     `arg:"-w,--watch" help:"keep watching scanned paths for new files"`
}

func (args) Description() string {
	return "Scans directories recursively and groups files by name so duplicates list together, newest first"
}

func (args) Version() string {
	return "dupescan 1.0.0"
}

func main() {
	var a args
	arg.MustParse(&a)

	cfg, err := duplicatescanner.LoadConfig(a.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dupescan: %v\n", err)
		os.Exit(1)
	}

	// Command-line flags override config file values
	verboseCfg := cfg.GetVerboseConfig()
	level := verboseCfg.Level
	if a.Verbose >= 0 {
		level = a.Verbose
	}
	if err := duplicatescanner.ValidateVerboseLevel(level); err != nil {
		fmt.Fprintf(os.Stderr, "dupescan: %v\n", err)
		os.Exit(1)
	}
	duplicatescanner.SetVerboseLevel(level)

	debug := verboseCfg.Debug
	if a.Debug != "" {
		debug = a.Debug
	}
	duplicatescanner.SetDebugFlags(debug)

	buckets := cfg.GetRegistryConfig().Buckets
	if a.Buckets > 0 {
		buckets = a.Buckets
	}
	if err := duplicatescanner.ValidateBucketCount(buckets); err != nil {
		fmt.Fprintf(os.Stderr, "dupescan: %v\n", err)
		os.Exit(1)
	}

	scannerCfg := cfg.GetScannerConfig()
	symlinks := scannerCfg.Symlinks
	if a.Symlinks != "" {
		symlinks = a.Symlinks
	}
	if err := duplicatescanner.ValidateSymlinkMode(symlinks); err != nil {
		fmt.Fprintf(os.Stderr, "dupescan: %v\n", err)
		os.Exit(1)
	}
	symlinks = strings.ToLower(symlinks)

	ignorePath := scannerCfg.IgnoreFile
	if a.IgnoreFile != "" {
		ignorePath = a.IgnoreFile
	}
	ignore := duplicatescanner.NewIgnoreManager(ignorePath)
	if err := ignore.LoadIgnorePatterns(); err != nil {
		fmt.Fprintf(os.Stderr, "dupescan: %v\n", err)
		os.Exit(1)
	}

	registry := duplicatescanner.NewRegistry(buckets)
	if err := registry.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "dupescan: couldn't start up the file table: %v\n", err)
		os.Exit(1)
	}

	scanner := duplicatescanner.NewScanner(registry, duplicatescanner.ScannerOptions{
		SymlinkMode: symlinks,
		Ignore:      ignore,
	})

	for _, path := range a.Paths {
		fmt.Printf("dupescan: scanning top-level directory %s\n", path)
		scanner.Scan(path)
	}

	count, _ := registry.Count()
	fmt.Printf("dupescan: finished scanning (%d files found).\n", count)

	var watcher *duplicatescanner.Watcher
	if a.Watch {
		watcher, err = duplicatescanner.NewWatcher(registry, ignore, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dupescan: %v\n", err)
			os.Exit(1)
		}
		for _, path := range a.Paths {
			if err := watcher.AddRoot(path); err != nil {
				fmt.Fprintf(os.Stderr, "dupescan: warning: %v\n", err)
			}
		}
		watcher.Start()
		fmt.Println("dupescan: watching scanned paths for new files")
	}

	interactiveLoop(registry)

	if watcher != nil {
		if err := watcher.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "dupescan: warning: %v\n", err)
		}
	}

	// A teardown failure at shutdown is reported but does not change an
	// otherwise-successful run's outcome
	if err := registry.Teardown(); err != nil {
		fmt.Fprintf(os.Stderr, "dupescan: problem freeing the file table: %v\n", err)
	}
}

// interactiveLoop reads single-character commands until q or EOF
func interactiveLoop(registry *duplicatescanner.Registry) {
	stdin := bufio.NewReader(os.Stdin)

	for {
		fmt.Printf("%s:", menuText)

		line, err := stdin.ReadString('\n')
		if err != nil && line == "" {
			return // EOF
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch line[0] {
		case 'a':
			printFileTable(registry)
		case 's':
			searchByName(registry, stdin)
		case 'q':
			return
		}
	}
}

// printFileTable dumps every chain in the registry, grouped by bucket
func printFileTable(registry *duplicatescanner.Registry) {
	err := registry.EnumerateAll(func(bucket int64, chain []*duplicatescanner.FileRecord) bool {
		printChain(chain)
		return true
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "dupescan: %v\n", err)
	}
}

// searchByName prompts for a filename and prints the matching bucket's chain
func searchByName(registry *duplicatescanner.Registry, stdin *bufio.Reader) {
	fmt.Printf("\nName: ")

	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	name := fields[0]
	if len(name) > duplicatescanner.MaxNameLen {
		name = name[:duplicatescanner.MaxNameLen]
	}

	fmt.Printf("\nSearching for %s\n", name)
	chain, err := registry.Lookup(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dupescan: %v\n", err)
		return
	}
	if len(chain) == 0 {
		fmt.Println("Sorry, no match found!")
		return
	}
	printChain(chain)
}

// printChain prints one bucket's chain: a header naming the newest record
// and its member count, then one numbered line per record
func printChain(chain []*duplicatescanner.FileRecord) {
	if len(chain) == 0 {
		return
	}

	fmt.Printf("FILE (x%d): %-64s\n", len(chain), duplicatescanner.BaseName(chain[0].Path))
	for i, record := range chain {
		fmt.Printf("\t%d:\t%-32s%-32s\n", i+1, record.Modified.Format(chainTimeFormat), record.Path)
	}
	fmt.Println()
}
