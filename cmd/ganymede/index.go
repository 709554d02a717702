package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"mercator-hq/ganymede/pkg/cli"
	"mercator-hq/ganymede/pkg/retrievers"
)

// maxIndexLine bounds a single JSONL record.
const maxIndexLine = 4 * 1024 * 1024

var indexFlags struct {
	file string
}

var adaptersIndexCmd = &cobra.Command{
	Use:   "index <name>",
	Short: "Load documents into an adapter's store",
	Long: `Read documents from a JSON Lines file and index them into the named
adapter. Each line is an object with "id", "content" and an optional
"metadata" object. Documents with an existing id are replaced.

Only adapters whose retriever accepts documents (vector.sqlite) can be
indexed.

Examples:
  ganymede adapters index handbook --file handbook.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runAdaptersIndex,
}

func init() {
	adaptersCmd.AddCommand(adaptersIndexCmd)

	adaptersIndexCmd.Flags().StringVarP(&indexFlags.file, "file", "f", "", "JSON Lines file to index (required)")
	adaptersIndexCmd.MarkFlagRequired("file")
}

type indexRow struct {
	Adapter string `json:"adapter"`
	File    string `json:"file"`
	Indexed int    `json:"indexed"`
}

func runAdaptersIndex(cmd *cobra.Command, args []string) error {
	name := args[0]
	format, err := cli.ParseFormat(adaptersFlags.format)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.General.InferenceOnly {
		return cli.NewCommandError("adapters index", fmt.Errorf("adapters are disabled in inference-only mode"))
	}

	f, err := os.Open(indexFlags.file)
	if err != nil {
		return cli.NewCommandError("adapters index", err)
	}
	defer f.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager, err := newManager(cfg, logger, nil)
	if err != nil {
		return cli.NewCommandError("adapters index", err)
	}
	defer closeManager(manager, cfg.AdapterManager.ShutdownTimeout, logger)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	adapter, err := manager.GetAdapter(ctx, name)
	if err != nil {
		return cli.NewCommandError("adapters index", err)
	}
	indexer, ok := adapter.(retrievers.Indexer)
	if !ok {
		return cli.NewCommandError("adapters index", fmt.Errorf("adapter %q does not accept documents", name))
	}

	indexed, err := indexDocuments(ctx, indexer, f)
	if err != nil {
		return cli.NewCommandError("adapters index", fmt.Errorf("indexed %d documents before failing: %w", indexed, err))
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), cli.Table{
		Headers: []string{"ADAPTER", "FILE", "INDEXED"},
		Rows:    [][]string{{name, indexFlags.file, strconv.Itoa(indexed)}},
		Records: []indexRow{{Adapter: name, File: indexFlags.file, Indexed: indexed}},
	})
}

// indexDocuments indexes every JSONL record read from r and returns the
// number stored. Blank lines are skipped.
func indexDocuments(ctx context.Context, indexer retrievers.Indexer, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxIndexLine)

	indexed, line := 0, 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		if !gjson.Valid(raw) {
			return indexed, fmt.Errorf("line %d: invalid JSON", line)
		}

		doc := gjson.Parse(raw)
		id, content := doc.Get("id").String(), doc.Get("content").String()
		if id == "" || content == "" {
			return indexed, fmt.Errorf("line %d: id and content are required", line)
		}
		var meta map[string]any
		if m := doc.Get("metadata"); m.IsObject() {
			meta, _ = m.Value().(map[string]any)
		}

		if err := indexer.Index(ctx, id, content, meta); err != nil {
			return indexed, fmt.Errorf("line %d: %w", line, err)
		}
		indexed++
	}
	if err := scanner.Err(); err != nil {
		return indexed, fmt.Errorf("line %d: %w", line+1, err)
	}
	return indexed, nil
}
