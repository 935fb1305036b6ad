// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/clinical-briefing/internal/registry"
)

var journalsCmd = &cobra.Command{
	Use:   "journals [journal name...]",
	Short: "Show how journal names resolve in the registry",
	Long: `Journals prints the impact factor and top-tier status the registry
assigns to each journal name given. With no arguments it lists the
registry's impact-factor keys in match order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
		if err != nil {
			return err
		}
		reg, err := registry.FromConfig(cfg.Registry)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			listJournals(os.Stdout, reg)
			return nil
		}
		lookupJournals(os.Stdout, reg, args)
		return nil
	},
}

func listJournals(w io.Writer, reg *registry.Registry) {
	fmt.Fprintf(w, "%-4s  %-45s  %s\n", "#", "Key", "Impact factor")
	fmt.Fprintln(w, strings.Repeat("-", 66))
	for i, e := range reg.Entries() {
		fmt.Fprintf(w, "%-4d  %-45s  %.1f\n", i+1, e.Key, e.ImpactFactor)
	}
}

func lookupJournals(w io.Writer, reg *registry.Registry, names []string) {
	fmt.Fprintf(w, "%-45s  %-8s  %-8s  %s\n", "Journal", "IF", "Top-tier", "Matched key")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, name := range names {
		p := reg.Lookup(name)
		key := p.Key
		if !p.Found {
			key = "(none)"
		}
		fmt.Fprintf(w, "%-45s  %-8.1f  %-8t  %s\n", name, p.ImpactFactor, p.TopTier, key)
	}
}

func init() {
	rootCmd.AddCommand(journalsCmd)
}
