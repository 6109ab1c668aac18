package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aura-invites/backend/internal/i18n"
)

type rootFlags struct {
	locale  string
	verbose bool
}

// app is the state shared by subcommands.
type app struct {
	fs    afero.Fs
	flags *rootFlags
}

func (a *app) localizer() *i18n.Localizer {
	return i18n.New(a.flags.locale)
}

func (a *app) logger() *zap.Logger {
	if !a.flags.verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	flags := &rootFlags{}
	a := &app{fs: fs, flags: flags}

	cmd := &cobra.Command{
		Use:           "invitectl",
		Short:         "Inspect templates and render wedding invitation previews",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.locale, "locale", "tr-TR", "Locale for dates and labels")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newTemplatesCmd(a))
	cmd.AddCommand(newPreviewCmd(a))

	return cmd
}
