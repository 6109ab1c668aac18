package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/aura-invites/backend/internal/catalog"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Faint(true)
)

type templatesOptions struct {
	tag        string
	jsonOutput bool
}

func newTemplatesCmd(a *app) *cobra.Command {
	opts := &templatesOptions{}

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the template gallery",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplates(cmd, a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.tag, "tag", "all", "Only templates carrying this tag")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func runTemplates(cmd *cobra.Command, a *app, opts *templatesOptions) error {
	tag, ok := catalog.ParseTag(opts.tag)
	if !ok {
		return fmt.Errorf("unknown tag %q", opts.tag)
	}
	list := catalog.FilterByTag(tag)

	if opts.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}

	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No templates carry that tag.")
		return nil
	}

	loc := a.localizer()
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%d templates", len(list))))
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCOLOR\tTAGS")
	for _, t := range list {
		tags := make([]string, 0, len(t.Tags))
		for _, tg := range t.Tags {
			tags = append(tags, tagLabel(loc.T, tg))
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(t.PrimaryColor)).Render("■")
		fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\n", t.ID, t.Name, swatch, t.PrimaryColor, strings.Join(tags, ", "))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out, mutedStyle.Render("Preview one with: invitectl preview <id>"))
	return nil
}

func tagLabel(t func(string, ...interface{}) string, tag catalog.Tag) string {
	for _, info := range catalog.Tags() {
		if info.ID == tag {
			return t(info.LabelKey)
		}
	}
	return string(tag)
}
