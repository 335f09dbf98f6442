// Command memindex_cli exercises the in-memory B-tree: it seeds a fixed key
// sequence, prints the three traversals, deletes a fixed sequence, and
// prints the extrema. With -interactive it drops into a REPL instead. With
// -viz it writes Graphviz DOT snapshots of the tree before and after the
// deletions, for rendering with `dot -Tpng`.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sushant-115/memindex/core/indexing/btree"
	"github.com/sushant-115/memindex/pkg/logger"
	"github.com/sushant-115/memindex/pkg/telemetry"
	"go.uber.org/zap"
)

var (
	insertKeys = []int{5, 3, 2, 7, 1, 8, 9, 12, 13, 4, 0, 6, -1, 19, 24, 25, -2, -3, -4, -5}
	deleteKeys = []int{2, 5, 6, 7, 0, 1, 3, 4, 8, 9, 12, 13, 19, 24, 25}
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	degree := flag.Int("degree", 2, "minimum degree t of the B-tree")
	interactive := flag.Bool("interactive", false, "start an interactive REPL instead of the fixed demo")
	vizDir := flag.String("viz", "", "directory to write DOT snapshots to (demo mode only)")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	zlogger, err := logger.New(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer zlogger.Sync()

	tel, telShutdown, err := telemetry.New(cfg.Telemetry)
	if err != nil {
		zlogger.Fatal("failed to initialize telemetry", zap.Error(err))
	}
	defer telShutdown(context.Background())

	tree, err := btree.NewWith[int](*degree, btree.DefaultKeyOrder[int], zlogger.Named("btree"), tel.Meter)
	if err != nil {
		zlogger.Fatal("failed to create btree", zap.Error(err))
	}

	if *interactive {
		if err := runREPL(tree); err != nil {
			zlogger.Fatal("repl failed", zap.Error(err))
		}
		return
	}

	if err := runDemo(tree, *vizDir, zlogger); err != nil {
		zlogger.Fatal("demo failed", zap.Error(err))
	}
}

// runDemo replays the fixed insert and delete sequences, printing the
// traversals and extrema along the way.
func runDemo(tree *btree.Tree[int], vizDir string, zlogger *zap.Logger) error {
	fmt.Println("Keys to be inserted:")
	fmt.Println(insertKeys)
	for _, key := range insertKeys {
		tree.Insert(key)
	}

	fmt.Println("Inorder traversal")
	fmt.Println(formatSeq(tree.Inorder()))
	fmt.Println("Preorder traversal")
	fmt.Println(formatSeq(tree.Preorder()))
	fmt.Println("Postorder traversal")
	fmt.Println(formatSeq(tree.Postorder()))

	if vizDir != "" {
		if err := writeDotFile(tree, filepath.Join(vizDir, "btree.dot")); err != nil {
			return err
		}
	}

	fmt.Println("Keys to be deleted:")
	fmt.Println(deleteKeys)
	for _, key := range deleteKeys {
		tree.Delete(key)
	}

	if vizDir != "" {
		if err := writeDotFile(tree, filepath.Join(vizDir, "btree-after-deletions.dot")); err != nil {
			return err
		}
	}

	min, err := tree.Min()
	if err != nil {
		return fmt.Errorf("minimum lookup failed: %w", err)
	}
	max, err := tree.Max()
	if err != nil {
		return fmt.Errorf("maximum lookup failed: %w", err)
	}
	fmt.Printf("Minimum key: %d\n", min)
	fmt.Printf("Maximum key: %d\n", max)

	zlogger.Info("demo complete",
		zap.Int("remaining", tree.Len()),
		zap.Int("height", tree.Height()))
	return nil
}

// runREPL serves interactive commands against the tree until EOF or "exit".
func runREPL(tree *btree.Tree[int]) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "memindex> ",
		HistoryFile:     filepath.Join(os.TempDir(), ".memindex_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if out, quit := execCommand(tree, fields); quit {
			return nil
		} else if out != "" {
			fmt.Println(out)
		}
	}
}

// execCommand runs a single REPL command and returns its output plus whether
// the REPL should exit.
func execCommand(tree *btree.Tree[int], fields []string) (string, bool) {
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "exit", "quit":
		return "", true
	case "help":
		return "commands: insert <k>..., delete <k>..., search <k>, min, max, inorder, preorder, postorder, len, height, dot, help, exit", false
	case "insert", "delete", "search":
		keys, err := parseKeys(args)
		if err != nil {
			return err.Error(), false
		}
		if len(keys) == 0 {
			return fmt.Sprintf("usage: %s <key> [key ...]", cmd), false
		}
		switch cmd {
		case "insert":
			for _, k := range keys {
				tree.Insert(k)
			}
		case "delete":
			for _, k := range keys {
				tree.Delete(k)
			}
		case "search":
			return strconv.FormatBool(tree.Search(keys[0])), false
		}
		return "ok", false
	case "min", "max":
		lookup := tree.Min
		if cmd == "max" {
			lookup = tree.Max
		}
		key, err := lookup()
		if err != nil {
			return err.Error(), false
		}
		return strconv.Itoa(key), false
	case "inorder":
		return formatSeq(tree.Inorder()), false
	case "preorder":
		return formatSeq(tree.Preorder()), false
	case "postorder":
		return formatSeq(tree.Postorder()), false
	case "len":
		return strconv.Itoa(tree.Len()), false
	case "height":
		return strconv.Itoa(tree.Height()), false
	case "dot":
		var sb strings.Builder
		if err := tree.WriteDot(&sb); err != nil {
			return err.Error(), false
		}
		return sb.String(), false
	default:
		return fmt.Sprintf("unknown command %q (try help)", cmd), false
	}
}

func parseKeys(args []string) ([]int, error) {
	keys := make([]int, 0, len(args))
	for _, arg := range args {
		k, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid key %q: must be an integer", arg)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func formatSeq(seq iter.Seq[int]) string {
	var sb strings.Builder
	for k := range seq {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(k))
	}
	return sb.String()
}

func writeDotFile(tree *btree.Tree[int], path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create viz directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create DOT file: %w", err)
	}
	defer f.Close()
	if err := tree.WriteDot(f); err != nil {
		return fmt.Errorf("failed to render DOT: %w", err)
	}
	fmt.Printf("Saving visualisation to %s\n", path)
	return nil
}
