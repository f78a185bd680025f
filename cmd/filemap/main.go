// filemap is an interactive CLI for inspecting and editing filemap
// storage directories.
//
// Usage:
//
//	filemap [flags] <dir>
//
// Flags:
//
//	-c, --codec      Entry encoding: gob, json, or msgpack (default gob)
//	-z, --compress   Snappy-compress encoded entries
//	-a, --atomic     Replace entry files atomically on write
//	    --config     Load settings from a JSONC config file
//	-v, --verbose    Log skipped files and swallowed delete errors
//
// Commands (in REPL):
//
//	put <key> <value>   Store a value
//	get <key>           Read a value
//	del <key>           Remove a key
//	has <key>           Check whether a key is tracked
//	ls [limit]          List keys
//	len                 Count tracked keys
//	info                Show store info
//	bench <count>       Benchmark put+get over N throwaway keys
//	wipe                Remove every entry
//	help                Show this help
//	exit / quit / q     Exit
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/calvinalkan/filemap"
)

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := flag.NewFlagSet("filemap", flag.ContinueOnError)

	codecName := flags.StringP("codec", "c", "", "entry encoding: gob, json, or msgpack")
	compress := flags.BoolP("compress", "z", false, "snappy-compress encoded entries")
	atomicWrites := flags.BoolP("atomic", "a", false, "replace entry files atomically on write")
	configPath := flags.String("config", "", "load settings from a JSONC config file")
	verbose := flags.BoolP("verbose", "v", false, "log skipped files and swallowed delete errors")

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: filemap [flags] <dir>\n\n")
		fmt.Fprintf(os.Stderr, "Open (or create) a storage directory and start an interactive session.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flags.PrintDefaults()
	}

	err := flags.Parse(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}

		return err
	}

	cfg := filemap.DefaultConfig()

	if *configPath != "" {
		cfg, err = filemap.LoadConfig(*configPath)
		if err != nil {
			return err
		}
	}

	// Flags override the config file.
	if *codecName != "" {
		cfg.Codec = *codecName
	}

	if *compress {
		cfg.Compress = true
	}

	if *atomicWrites {
		cfg.AtomicWrites = true
	}

	if flags.NArg() >= 1 {
		cfg.Dir = flags.Arg(0)
	} else if *configPath == "" {
		flags.Usage()

		return errors.New("missing storage directory")
	}

	var opts []filemap.Option

	if *verbose {
		log, logErr := zap.NewDevelopment()
		if logErr != nil {
			return fmt.Errorf("create logger: %w", logErr)
		}

		defer func() { _ = log.Sync() }()

		opts = append(opts, filemap.WithLogger(log))
	}

	store, err := filemap.OpenConfig[string, string](cfg, opts...)
	if err != nil {
		return err
	}

	repl := &REPL{store: store, cfg: cfg}

	return repl.Run()
}

// REPL is the interactive command loop.
type REPL struct {
	store *filemap.Map[string, string]
	cfg   filemap.Config
	liner *liner.State
}

// historyFile returns the path to the history file.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".filemap_history")
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		_, _ = r.liner.ReadHistory(f)
		_ = f.Close()
	}

	fmt.Printf("filemap - file-backed key-value store (dir=%s, codec=%s)\n", r.store.Dir(), r.describeCodec())
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		input, err := r.liner.Prompt("filemap> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		r.liner.AppendHistory(input)

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")

			r.saveHistory()

			return nil

		case "help", "?":
			r.printHelp()

		case "put", "set":
			r.cmdPut(args)

		case "get":
			r.cmdGet(args)

		case "del", "delete", "rm":
			r.cmdDel(args)

		case "has":
			r.cmdHas(args)

		case "ls", "keys", "list":
			r.cmdKeys(args)

		case "len", "count":
			fmt.Printf("%d key(s)\n", r.store.Len())

		case "info":
			r.cmdInfo()

		case "bench":
			r.cmdBench(args)

		case "wipe":
			r.cmdWipe()

		case "clear", "cls":
			fmt.Print("\033[H\033[2J")

		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()

	return nil
}

// saveHistory persists command history to disk.
func (r *REPL) saveHistory() {
	path := historyFile()
	if path == "" {
		return
	}

	f, err := os.Create(path)
	if err != nil {
		return
	}

	_, _ = r.liner.WriteHistory(f)
	_ = f.Close()
}

// completer provides tab completion for commands.
func (r *REPL) completer(line string) []string {
	commands := []string{
		"put", "set", "get", "del", "delete", "rm",
		"has", "ls", "keys", "list", "len", "count",
		"info", "bench", "wipe", "clear", "cls",
		"help", "exit", "quit", "q",
	}

	var completions []string

	lower := strings.ToLower(line)
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}

	return completions
}

func (r *REPL) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  put <key> <value>   Store a value (spaces in the value are kept)")
	fmt.Println("  get <key>           Read a value")
	fmt.Println("  del <key>           Remove a key")
	fmt.Println("  has <key>           Check whether a key is tracked")
	fmt.Println("  ls [limit]          List keys")
	fmt.Println("  len                 Count tracked keys")
	fmt.Println("  info                Show store info")
	fmt.Println("  bench <count>       Benchmark put+get over N throwaway keys")
	fmt.Println("  wipe                Remove every entry")
	fmt.Println("  help                Show this help")
	fmt.Println("  exit / quit / q     Exit")
}

func (r *REPL) describeCodec() string {
	name := r.cfg.Codec
	if name == "" {
		name = "gob"
	}

	if r.cfg.Compress {
		return name + "+snappy"
	}

	return name
}

func (r *REPL) cmdPut(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: put <key> <value>")

		return
	}

	key := args[0]
	value := strings.Join(args[1:], " ")

	prev, hadPrev, err := r.store.Put(key, value)
	if err != nil {
		fmt.Printf("Error: %v\n", err)

		return
	}

	if hadPrev {
		fmt.Printf("OK: put %q (replaced %q)\n", key, prev)
	} else {
		fmt.Printf("OK: put %q\n", key)
	}
}

func (r *REPL) cmdGet(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: get <key>")

		return
	}

	value, ok := r.store.Get(args[0])
	if !ok {
		fmt.Printf("Not found: %q\n", args[0])

		return
	}

	fmt.Println(value)
}

func (r *REPL) cmdDel(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: del <key>")

		return
	}

	prev, ok := r.store.Remove(args[0])
	if !ok {
		fmt.Printf("Not found: %q\n", args[0])

		return
	}

	fmt.Printf("OK: deleted %q (was %q)\n", args[0], prev)
}

func (r *REPL) cmdHas(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: has <key>")

		return
	}

	if r.store.ContainsKey(args[0]) {
		fmt.Println("yes")
	} else {
		fmt.Println("no")
	}
}

func (r *REPL) cmdKeys(args []string) {
	limit := 0

	if len(args) >= 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			fmt.Println("Usage: ls [limit]")

			return
		}

		limit = n
	}

	keys := r.store.Keys()
	slices.Sort(keys)

	shown := len(keys)
	if limit > 0 && limit < shown {
		shown = limit
	}

	for _, key := range keys[:shown] {
		fmt.Println(key)
	}

	if shown < len(keys) {
		fmt.Printf("... and %d more\n", len(keys)-shown)
	}

	fmt.Printf("%d key(s)\n", len(keys))
}

func (r *REPL) cmdInfo() {
	fmt.Printf("Directory:      %s\n", r.store.Dir())
	fmt.Printf("Codec:          %s\n", r.describeCodec())
	fmt.Printf("Atomic writes:  %v\n", r.cfg.AtomicWrites)
	fmt.Printf("Tracked keys:   %d\n", r.store.Len())
}

func (r *REPL) cmdBench(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: bench <count>")

		return
	}

	count, err := strconv.Atoi(args[0])
	if err != nil || count < 1 {
		fmt.Println("Error: count must be a positive integer")

		return
	}

	fmt.Printf("Benchmarking %d operations...\n", count)

	keys := make([]string, count)
	for i := range count {
		keys[i] = fmt.Sprintf("bench:%06d", i)
	}

	putStart := time.Now()

	for i, key := range keys {
		_, _, putErr := r.store.Put(key, fmt.Sprintf("value-%06d", i))
		if putErr != nil {
			fmt.Printf("Error at put %d: %v\n", i+1, putErr)

			return
		}
	}

	putElapsed := time.Since(putStart)

	getStart := time.Now()

	for i, key := range keys {
		_, ok := r.store.Get(key)
		if !ok {
			fmt.Printf("Error at get %d: key missing\n", i+1)

			return
		}
	}

	getElapsed := time.Since(getStart)

	for _, key := range keys {
		r.store.Remove(key)
	}

	fmt.Printf("put: %d ops in %s (%s)\n", count, formatDuration(putElapsed), opsPerSecond(count, putElapsed))
	fmt.Printf("get: %d ops in %s (%s)\n", count, formatDuration(getElapsed), opsPerSecond(count, getElapsed))
}

func (r *REPL) cmdWipe() {
	n := r.store.Len()
	r.store.Clear()
	fmt.Printf("OK: removed %d key(s)\n", n)
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	default:
		return d.Round(time.Millisecond).String()
	}
}

func opsPerSecond(count int, elapsed time.Duration) string {
	if elapsed <= 0 {
		return "n/a"
	}

	rate := float64(count) / elapsed.Seconds()
	if rate >= 1000 {
		return fmt.Sprintf("%.1fk ops/s", rate/1000)
	}

	return fmt.Sprintf("%.0f ops/s", rate)
}
