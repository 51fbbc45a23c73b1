package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/cobra"

	"github.com/autotouch/outbound/internal/threads"
)

var (
	threadsDir     string
	threadsOut     string
	threadsInbox   string
	threadsInboxes string
	threadsAll     bool
)

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "Work with exported LinkedIn message threads",
}

var threadsDigestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Render exported threads as a Markdown digest",
	Long: "Reads every thread export in --threads-dir and writes one Markdown file. " +
		"Unless --all-threads is set, only conversations listed in the unread inbox " +
		"export are kept (by default the newest linkedin_unread_inbox_*.json in --inbox-dir).",
	Args: cobra.NoArgs,
	RunE: runThreadsDigest,
}

func init() {
	fl := threadsDigestCmd.Flags()
	fl.StringVar(&threadsDir, "threads-dir", filepath.Join("linkedin", "data", "raw", "threads"), "directory of thread JSON exports")
	fl.StringVar(&threadsOut, "out", "", "output file (default linkedin/data/processed/unread_threads_<timestamp>.md)")
	fl.StringVar(&threadsInbox, "inbox-list", "", "inbox export used to select threads")
	fl.StringVar(&threadsInboxes, "inbox-dir", filepath.Join("linkedin", "data", "raw"), "directory searched for the newest inbox export")
	fl.BoolVar(&threadsAll, "all-threads", false, "include every thread, ignoring the inbox list")

	threadsCmd.AddCommand(threadsDigestCmd)
	rootCmd.AddCommand(threadsCmd)
}

func runThreadsDigest(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	now := time.Now()

	var allowed mapset.Set[string]
	inbox := threadsInbox
	if threadsAll {
		inbox = ""
	} else if inbox == "" {
		latest, err := threads.LatestInbox(threadsInboxes)
		if err != nil {
			return err
		}
		if latest == "" {
			logger.Warn("no inbox list found, including every thread", "inbox_dir", threadsInboxes)
		}
		inbox = latest
	}
	if inbox != "" {
		urns, err := threads.InboxURNs(inbox)
		if err != nil {
			return err
		}
		allowed = urns
		logger.Debug("filtering threads by inbox list", "inbox_list", inbox, "conversations", urns.Cardinality())
	}

	files, err := filepath.Glob(filepath.Join(threadsDir, "*.json"))
	if err != nil {
		return fmt.Errorf("list threads: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no thread files found in %s", threadsDir)
	}

	parsed, err := threads.Parser{Location: time.Local}.ParseDir(threadsDir, allowed)
	if err != nil {
		return err
	}

	out := threadsOut
	if out == "" {
		out = filepath.Join("linkedin", "data", "processed", threads.OutputName(now))
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create digest: %w", err)
	}

	digest := threads.Digest{
		GeneratedAt: now.Format(threads.GeneratedAtLayout),
		SourceDir:   threadsDir,
		InboxList:   inbox,
		Threads:     parsed,
	}
	if err := errors.Join(threads.Render(f, digest), f.Close()); err != nil {
		return fmt.Errorf("write digest: %w", err)
	}

	logger.Info("digest written", "threads", len(parsed), "files", len(files))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
	return nil
}
