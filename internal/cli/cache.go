package cli

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tierlist/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the cover image cache",
	}

	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheListCommand())
	cmd.AddCommand(c.cacheClearCommand())

	return cmd
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.settings().CacheDir)
			return nil
		},
	}
}

func (c *CLI) cacheListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show cached covers per namespace",
		Long: `Show cached covers per namespace.

Namespace directories are hashes of the caller identity; "shared" holds
covers fetched without one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newStore()
			if err != nil {
				return err
			}
			stats, err := store.Stats()
			if err != nil {
				return fmt.Errorf("read cache: %w", err)
			}
			if len(stats) == 0 {
				printInfo("Cache is empty")
				printDetail("Directory: %s", store.Root())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), cacheTable(stats))
			return nil
		},
	}
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached covers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newStore()
			if err != nil {
				return err
			}
			count, err := store.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached covers", count)
			printDetail("Directory: %s", store.Root())
			return nil
		},
	}
}

// cacheTable renders namespace stats with a total row.
func cacheTable(stats []cache.NamespaceStats) string {
	rows := make([][]string, 0, len(stats)+1)
	var entries int
	var size int64
	for _, s := range stats {
		rows = append(rows, []string{s.Dir, strconv.Itoa(s.Entries), humanize.Bytes(uint64(s.Bytes))})
		entries += s.Entries
		size += s.Bytes
	}
	rows = append(rows, []string{"total", strconv.Itoa(entries), humanize.Bytes(uint64(size))})
	return renderTable([]string{"Namespace", "Covers", "Size"}, rows, []columnAlignment{alignLeft, alignRight, alignRight})
}
