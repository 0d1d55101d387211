package main

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/cognicore/wals/pkg/wals/config"
	"github.com/cognicore/wals/pkg/wals/internalerr"
	"github.com/cognicore/wals/pkg/wals/snapshot"
	"github.com/cognicore/wals/pkg/wals/store"
)

func newSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot [path]",
		Short: "Decode the CSV exports and save them as a binary snapshot",
		Long: `Decode the CSV exports and write them as one msgpack file. When data.snapshot
is configured, later runs load the snapshot instead of parsing CSV.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSnapshot,
	}
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path := firstArg(args, cfg.Data.Snapshot)
	if path == "" {
		path = filepath.Join(cfg.Data.Dir, "wals.mp")
	}

	// Always rebuild from CSV.
	cfg.Data.Snapshot = ""
	p := newPrinter(cmd)
	a, err := openAtlasWith(cmd, p, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := snapshot.Save(path, a.Dataset()); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	p.Printf("snapshot written to %s", path)
	return nil
}

func newReportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List saved reports",
		Args:  cobra.NoArgs,
		RunE:  runReportsList,
	}
	cmd.Flags().String("kind", "", "only list reports of this kind (distance|profile|typicality)")
	cmd.Flags().Int("limit", store.DefaultListLimit, "maximum number of reports")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved report",
		Args:  cobra.ExactArgs(1),
		RunE:  runReportsShow,
	})
	return cmd
}

func runReportsList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := config.OpenStore(cmd.Context(), cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	kind, _ := cmd.Flags().GetString("kind")
	limit, _ := cmd.Flags().GetInt("limit")
	reports, err := st.ListReports(cmd.Context(), store.Kind(kind), limit)
	if err != nil {
		return err
	}

	p := newPrinter(cmd)
	for _, r := range reports {
		p.Printf("%s  %-10s  %-16s  %s  %d rows", r.ID, r.Kind, r.Subject, r.CreatedAt.Format("2006-01-02 15:04:05"), len(r.Rows))
	}
	return nil
}

func runReportsShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := config.OpenStore(cmd.Context(), cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	r, ok, err := st.GetReport(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("report %s: %w", args[0], internalerr.ErrNotFound)
	}

	p := newPrinter(cmd)
	p.Printf("%s %s %s (%s)", r.ID, r.Kind, r.Subject, r.CreatedAt.Format("2006-01-02 15:04:05"))
	keys := make([]string, 0, len(r.Meta))
	for k := range r.Meta {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		p.Printf("  %s=%s", k, r.Meta[k])
	}
	for _, row := range r.Rows {
		p.Printf("  %-8s %-30s %10.4f  (%d/%d)", row.Key, row.Label, row.Value, row.Matches, row.Total)
	}
	return nil
}
