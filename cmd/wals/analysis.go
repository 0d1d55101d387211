package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/cognicore/wals/pkg/wals/report"
)

func newDistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dist [language]",
		Short: "Rank languages by typological similarity to a reference language",
		Long: `Compare the reference language (id or name, default from config) against
every language of a region and list them by descending similarity. Similarity
is the 95% Wilson lower bound of the share of shared parameters with the
same answer.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDist,
	}
	cmd.Flags().String("region", "", "region whose languages are ranked (default EARTH)")
	cmd.Flags().Int("top", 0, "print only the first N languages (0=all)")
	return cmd
}

func runDist(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd)
	a, cfg, err := openAtlas(cmd, p)
	if err != nil {
		return err
	}
	defer a.Close()

	ref, err := resolveLanguage(a, firstArg(args, cfg.Defaults.Language))
	if err != nil {
		return err
	}
	regionID, _ := cmd.Flags().GetString("region")
	if regionID == "" {
		regionID = cfg.Defaults.Region
	}
	r := resolveRegion(a, regionID)
	top, _ := cmd.Flags().GetInt("top")

	p.Debugf("Testing lang dist...")
	res, err := a.Rank(cmd.Context(), ref, r, newProgress(p).Report)
	if err != nil {
		return err
	}
	for i, rk := range res.Ranked {
		if top > 0 && i >= top {
			break
		}
		p.Debugf("%s => %s (%d/%d)", rk.Language, formatScore(rk.Score), rk.Matches, rk.Total)
	}
	p.Printf("report %s", res.Report.ID)
	return nil
}

func newSprachbundCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sprachbund [region]",
		Short: "List the majority answer of every parameter within a region",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSprachbund,
	}
}

func runSprachbund(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd)
	a, cfg, err := openAtlas(cmd, p)
	if err != nil {
		return err
	}
	defer a.Close()

	r := resolveRegion(a, firstArg(args, cfg.Defaults.Region))
	res, err := a.Sprachbund(cmd.Context(), r)
	if err != nil {
		return err
	}
	for _, e := range res.Profile.Entries {
		if !e.HasMajority {
			p.Debugf("%s => %s", e.Parameter, report.NoMajority)
			continue
		}
		p.Debugf("%s => <%s> (%d/%d)", e.Parameter, report.ElementLabel(e), e.Count, e.SampleSize)
	}
	p.Printf("%s: %d of %d parameters have a majority; report %s",
		r.ID(), res.Profile.Len(), len(res.Profile.Entries), res.Report.ID)
	return nil
}

func newTypicalityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "typicality [region]",
		Short: "Score how typical each language of a region is",
		Long: `Build the region's majority profile, then score each of its languages by
the Wilson lower bound of the share of profile parameters it answers with the
majority answer. Scores are shown as percentages, highest first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTypicality,
	}
}

func runTypicality(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd)
	a, cfg, err := openAtlas(cmd, p)
	if err != nil {
		return err
	}
	defer a.Close()

	r := resolveRegion(a, firstArg(args, cfg.Defaults.Region))
	res, err := a.Typicality(cmd.Context(), r)
	if err != nil {
		return err
	}
	for _, s := range res.Scores {
		p.Debugf("Score: %s%% (%d/%d) <= %s", formatPercent(s.Percent), s.Matches, s.Total, s.Language.Name)
	}
	p.Printf("report %s", res.Report.ID)
	return nil
}

// formatPercent rounds for display only.
func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f", math.Round(v*100)/100)
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
