package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/cognicore/chainer/internal/journal"
	"github.com/cognicore/chainer/pkg/chainer"
	"github.com/cognicore/chainer/pkg/chainer/config"
	"github.com/cognicore/chainer/pkg/chainer/internalerr"
	"github.com/cognicore/chainer/pkg/chainer/render"
	"github.com/cognicore/chainer/pkg/chainer/store"
	"github.com/cognicore/chainer/pkg/chainer/store/sqlite"
)

// sessionConfig is the merged view of flags and the settings file
type sessionConfig struct {
	DBPath     string
	ConfigPath string
	KBPath     string
	ImportPath string
	Verbose    int
	Format     string
}

func main() {
	var (
		dbPath     = flag.String("db", "", "SQLite journal path (empty keeps the session in memory)")
		configPath = flag.String("config", "", "YAML settings file (optional)")
		kbPath     = flag.String("kb", "", "Knowledge base file to load (optional)")
		importPath = flag.String("import", "", "JSONL journal to import (optional)")
		exportPath = flag.String("export", "", "Write the journal as JSONL on exit (optional)")
		verbose    = flag.Int("verbose", 0, "Trace level: 0 off, 1 asserts, 2 inference")
		formatFlag = flag.String("format", "", "Explain output format: text or html")
		command    = flag.String("cmd", "", "One-shot command (non-interactive mode)")
	)
	flag.Parse()

	ctx := context.Background()

	session, format, cleanup, err := buildSession(ctx, sessionConfig{
		DBPath:     *dbPath,
		ConfigPath: *configPath,
		KBPath:     *kbPath,
		ImportPath: *importPath,
		Verbose:    *verbose,
		Format:     *formatFlag,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	if *command != "" {
		if err := executeCommand(ctx, os.Stdout, session, *command, format); err != nil {
			log.Fatal(err)
		}
	} else {
		runInteractive(ctx, session, format)
	}

	if *exportPath != "" {
		if err := exportJournal(ctx, session, *exportPath); err != nil {
			log.Fatal(err)
		}
	}
}

func runInteractive(ctx context.Context, session *chainer.Chainer, format string) {
	fmt.Println("===========================================")
	fmt.Println("  Chainer KB CLI")
	fmt.Println("  Forward-chaining knowledge base")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Type 'help' for commands (Ctrl+D to exit):")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		if err := executeCommand(ctx, os.Stdout, session, line, format); err != nil {
			fmt.Println("Error:", err)
		}
	}

	fmt.Println("\nGoodbye!")
}

const helpText = `Commands:
  assert fact: (isa cube block)
  assert rule: ((isa ?x block) (on ?x ?y)) -> (covered ?y)
  retract fact: (isa cube block)
  ask (covered ?y)
  explain fact: (covered table)
  show       print every fact and rule
  journal    print the recorded assertions
  help
`

func executeCommand(ctx context.Context, w io.Writer, session *chainer.Chainer, line, format string) error {
	verb, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch verb {
	case "assert":
		item, err := session.Assert(ctx, arg)
		if err != nil {
			return fmt.Errorf("assert: %w", err)
		}
		fmt.Fprintf(w, "Asserted %s\n", item)

	case "retract":
		if err := session.Retract(ctx, arg); err != nil {
			return fmt.Errorf("retract: %w", err)
		}
		fmt.Fprintf(w, "Retracted %s\n", arg)

	case "ask":
		bindings, err := session.Ask(arg)
		if err != nil {
			return fmt.Errorf("ask: %w", err)
		}
		if bindings.Empty() {
			fmt.Fprintln(w, "No bindings")
			return nil
		}
		for _, b := range bindings.All() {
			answer := b.Subst.String()
			if answer == "" {
				answer = "TRUE"
			}
			fmt.Fprintf(w, "%s\n", answer)
			for _, f := range b.Facts {
				fmt.Fprintf(w, "  because %s\n", f.Statement)
			}
		}

	case "explain":
		tree, err := session.ExplainTree(arg)
		if errors.Is(err, internalerr.ErrNotFound) {
			text, _ := session.Explain(arg)
			fmt.Fprintln(w, text)
			return nil
		}
		if err != nil {
			return fmt.Errorf("explain: %w", err)
		}
		if err := render.Write(w, tree, format); err != nil {
			return fmt.Errorf("explain: %w", err)
		}
		if format == render.FormatHTML {
			fmt.Fprintln(w)
		}

	case "show":
		fmt.Fprint(w, session.KB())

	case "journal":
		entries, err := session.Journal(ctx)
		if err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		for _, e := range entries {
			fmt.Fprintf(w, "%s  %s\n", e.ID, e.Text)
		}

	case "help":
		fmt.Fprint(w, helpText)

	default:
		return fmt.Errorf("unknown command %q (try 'help')", verb)
	}
	return nil
}

func buildSession(ctx context.Context, cfg sessionConfig) (*chainer.Chainer, string, func(), error) {
	loader := config.Loader{SettingsPath: cfg.ConfigPath}
	if cfg.KBPath != "" {
		loader.KBPaths = []string{cfg.KBPath}
	}

	components, err := loader.Load()
	if err != nil {
		return nil, "", nil, fmt.Errorf("load config: %w", err)
	}
	settings := components.Settings

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = settings.DBPath
	}
	verbose := cfg.Verbose
	if verbose == 0 {
		verbose = settings.Verbose
	}
	format := cfg.Format
	if format == "" {
		format = settings.ExplainFormat
	}
	if format == "" {
		format = render.FormatText
	}

	opts := chainer.Options{
		Logger:  log.New(os.Stderr, "kb: ", log.LstdFlags),
		Verbose: verbose,
	}
	if dbPath != "" {
		st, err := sqlite.OpenSQLite(ctx, dbPath)
		if err != nil {
			return nil, "", nil, fmt.Errorf("open store: %w", err)
		}
		opts.Store = st
	}

	session, err := chainer.Open(ctx, opts)
	if err != nil {
		if opts.Store != nil {
			opts.Store.Close()
		}
		return nil, "", nil, fmt.Errorf("open session: %w", err)
	}

	cleanup := func() {
		session.Close()
	}

	for _, src := range components.Sources {
		if _, err := session.Load(ctx, src.Text); err != nil {
			cleanup()
			return nil, "", nil, fmt.Errorf("load %s: %w", src.Path, err)
		}
	}

	if cfg.ImportPath != "" {
		entries, err := journal.LoadFromJSONL(cfg.ImportPath)
		if err != nil {
			cleanup()
			return nil, "", nil, fmt.Errorf("import: %w", err)
		}
		if err := session.Import(ctx, entries); err != nil {
			cleanup()
			return nil, "", nil, fmt.Errorf("import: %w", err)
		}
	}

	return session, format, cleanup, nil
}

func exportJournal(ctx context.Context, session *chainer.Chainer, path string) error {
	entries, err := session.Journal(ctx)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return writeJournal(path, entries)
}

func writeJournal(path string, entries []store.Assertion) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := journal.WriteJSONL(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
