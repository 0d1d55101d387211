package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cognicore/wals/pkg/wals/config"
	"github.com/cognicore/wals/pkg/wals/dataset"
	"github.com/cognicore/wals/pkg/wals/geo"
	"github.com/cognicore/wals/pkg/wals/internalerr"
	"github.com/cognicore/wals/pkg/wals/markup"
)

func newRegionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List every region with its number of languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd)
			a, _, err := openAtlas(cmd, p)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, rs := range a.RegionSizes() {
				p.Debugf("%s has %d languages.", rs.Region, rs.Languages)
			}
			return nil
		},
	}
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <latitude> <longitude>",
		Short: "Show the province and regions of a coordinate",
		Args:  cobra.ExactArgs(2),
		RunE:  runClassify,
	}
}

func runClassify(cmd *cobra.Command, args []string) error {
	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("latitude %q: %w", args[0], internalerr.ErrInvalidInput)
	}
	lon, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("longitude %q: %w", args[1], internalerr.ErrInvalidInput)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c, err := geo.New(geo.Options{Strategy: cfg.Classifier.Strategy, RasterPath: cfg.Classifier.Raster})
	if err != nil {
		return err
	}
	reg, err := config.BuildRegistry(cfg.Regions)
	if err != nil {
		return err
	}

	p := newPrinter(cmd)
	prov := c.Classify(lat, lon)
	p.Printf("%g, %g => %s", lat, lon, prov)
	for _, r := range reg.All() {
		if r.Contains(prov) {
			p.Printf("  in %s", r)
		}
	}
	return nil
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Describe a language or a parameter",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "language <id|name>",
		Short: "Show a language with its province and answers",
		Args:  cobra.ExactArgs(1),
		RunE:  runShowLanguage,
	}, &cobra.Command{
		Use:   "parameter <id>",
		Short: "Show a parameter with its possible answers",
		Args:  cobra.ExactArgs(1),
		RunE:  runShowParameter,
	})
	return cmd
}

func runShowLanguage(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd)
	a, _, err := openAtlas(cmd, p)
	if err != nil {
		return err
	}
	defer a.Close()

	l, ok := a.Language(args[0])
	if !ok {
		return fmt.Errorf("language %q: %w", args[0], internalerr.ErrNotFound)
	}
	ds := a.Dataset()

	p.Printf("%s", l)
	p.Printf("  coordinates: %g, %g", l.Latitude, l.Longitude)
	p.Printf("  province:    %s", a.ProvinceOf(l))
	if text := markup.PlainText(l.MarkupDescription); text != "" {
		p.Printf("  %s", text)
	}

	answers := ds.Answers(l.ID)
	p.Printf("  answers:     %d", len(answers))
	for _, param := range ds.OrderedParameters() {
		v, ok := answers[param.ID]
		if !ok {
			continue
		}
		p.Printf("    %-6s %s", param.ID, elementName(ds, v.DomainElementPK))
	}
	return nil
}

func runShowParameter(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd)
	a, _, err := openAtlas(cmd, p)
	if err != nil {
		return err
	}
	defer a.Close()

	ds := a.Dataset()
	param, ok := ds.Parameter(args[0])
	if !ok {
		return fmt.Errorf("parameter %q: %w", args[0], internalerr.ErrNotFound)
	}

	counts := make(map[int]int)
	for _, v := range ds.ValuesFor(param.ID) {
		counts[v.DomainElementPK]++
	}

	p.Printf("%s", param)
	if text := markup.PlainText(param.MarkupDescription); text != "" {
		p.Printf("  %s", text)
	}
	for _, e := range ds.ElementsOf(param.PK) {
		icon := ""
		if ic, ok := e.Icon(); ok {
			icon = fmt.Sprintf(" [%c #%s]", ic.Shape, ic.Color)
		}
		p.Printf("  %d. %s (%s)%s: %d languages", e.Number, e.Name, e.Abbr, icon, counts[e.PK])
	}
	return nil
}

func elementName(ds *dataset.Dataset, pk int) string {
	if e, ok := ds.DomainElement(pk); ok {
		return e.Name
	}
	return "#" + strconv.Itoa(pk)
}
