package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/aura-invites/backend/internal/catalog"
	"github.com/aura-invites/backend/internal/envelope"
	"github.com/aura-invites/backend/internal/models"
	"github.com/aura-invites/backend/internal/render"
)

type previewOptions struct {
	input      string
	outDir     string
	baseURL    string
	jsonOutput bool
	play       bool
	noRSVP     bool
	speed      float64
}

func newPreviewCmd(a *app) *cobra.Command {
	opts := &previewOptions{}

	cmd := &cobra.Command{
		Use:   "preview [template-id]",
		Short: "Render an invitation to a static HTML file",
		Long: "Render the sample invitation of a template, or an invitation read from a JSON\n" +
			"file with --input, to <out>/<slug>.html. With --play the envelope opening runs\n" +
			"on the wall clock first and its stages are printed as they fire.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, a, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Invitation JSON file")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "preview", "Output directory")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "http://localhost:8080", "Public base URL used in page metadata")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Write the render document as JSON instead of HTML")
	cmd.Flags().BoolVar(&opts.play, "play", false, "Play the envelope opening before writing")
	cmd.Flags().BoolVar(&opts.noRSVP, "no-rsvp", false, "Leave the RSVP form out")
	cmd.Flags().Float64Var(&opts.speed, "speed", 1, "Envelope playback speed multiplier")

	return cmd
}

func runPreview(cmd *cobra.Command, a *app, opts *previewOptions, args []string) error {
	logger := a.logger()
	inv, err := loadInvitation(a.fs, opts.input, args)
	if err != nil {
		return err
	}

	if opts.speed <= 0 {
		return fmt.Errorf("--speed must be positive")
	}

	out := cmd.OutOrStdout()
	gateCfg := envelope.Config{
		SkipEnvelope: inv.SkipEnvelope,
		AudioURL:     inv.AudioURL,
		Plan:         scaledPlan(opts.speed),
		Logger:       logger,
	}
	if opts.play {
		if err := playEnvelope(cmd.Context(), out, gateCfg); err != nil {
			return err
		}
	}

	r := render.NewRenderer(a.localizer())
	doc := r.Render(inv, !opts.noRSVP)

	var buf bytes.Buffer
	ext := ".html"
	if opts.jsonOutput {
		ext = ".json"
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
	} else {
		loc := r.Localizer()
		snap := envelope.Describe(gateCfg)
		plan, err := json.Marshal(snap.Stages)
		if err != nil {
			return fmt.Errorf("encode envelope plan: %w", err)
		}
		head := render.NewHead(loc.T("meta.default_title"))
		restore := head.Acquire(render.MetaFor(inv, opts.baseURL, loc))
		defer restore()
		page := render.Page{
			Doc:  doc,
			Head: head,
			Gate: &render.Gate{
				InitialState: string(snap.InitialState),
				CanSkip:      true,
				AudioURL:     snap.AudioURL,
				PlanJSON:     string(plan),
			},
			Lang:  lang(loc.Locale()),
			Local: loc,
		}
		if err := render.HTML(page).Render(context.Background(), &buf); err != nil {
			return fmt.Errorf("render html: %w", err)
		}
	}

	if err := a.fs.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(opts.outDir, inv.Slug+ext)
	if err := afero.WriteFile(a.fs, path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	fmt.Fprintf(out, "%s %s (%s, %d sections)\n", titleStyle.Render("wrote"), path, doc.TemplateID, len(doc.Sections))
	return nil
}

func lang(locale string) string {
	l, _, _ := strings.Cut(locale, "-")
	return l
}

// scaledPlan speeds the default opening sequence up by speed.
func scaledPlan(speed float64) envelope.Plan {
	p := envelope.DefaultPlan()
	if speed == 1 {
		return p
	}
	scale := func(d time.Duration) time.Duration { return time.Duration(float64(d) / speed) }
	return envelope.Plan{
		SealBreak:  scale(p.SealBreak),
		LightSweep: scale(p.LightSweep),
		Particles:  scale(p.Particles),
		Reveal:     scale(p.Reveal),
	}
}

// loadInvitation reads --input, or falls back to the sample invitation of
// the template named in args.
func loadInvitation(fs afero.Fs, input string, args []string) (models.Invitation, error) {
	if input == "" {
		raw := string(models.DefaultTemplateID)
		if len(args) > 0 {
			raw = args[0]
		}
		return render.Sample(catalog.CoerceID(raw)), nil
	}
	data, err := afero.ReadFile(fs, input)
	if err != nil {
		return models.Invitation{}, fmt.Errorf("read invitation: %w", err)
	}
	var inv models.Invitation
	if err := json.Unmarshal(data, &inv); err != nil {
		return models.Invitation{}, fmt.Errorf("decode invitation %s: %w", input, err)
	}
	if len(args) > 0 {
		inv.TemplateID = models.TemplateID(args[0])
	}
	inv.TemplateID = catalog.CoerceID(string(inv.TemplateID))
	if inv.Slug == "" {
		inv.Slug = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	return inv, nil
}

// printEffects reports gate activity on the terminal.
type printEffects struct {
	w     io.Writer
	start time.Time
}

func (p printEffects) PlayAudio(url string) error {
	fmt.Fprintf(p.w, "  audio  %s\n", url)
	return nil
}

func (p printEffects) Haptic(envelope.HapticPattern) error { return envelope.ErrUnsupported }

func (p printEffects) Stage(s envelope.Stage) {
	fmt.Fprintf(p.w, "  %-12s +%dms\n", s, time.Since(p.start).Milliseconds())
}

// playEnvelope opens a gate on the real clock and waits for the reveal.
func playEnvelope(ctx context.Context, w io.Writer, cfg envelope.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	done := make(chan struct{})
	fx := printEffects{w: w, start: time.Now()}
	g := envelope.New(cfg, envelope.RealClock{}, fx, func() { close(done) })
	defer g.Close()

	if g.State() == envelope.StateRevealed {
		fmt.Fprintln(w, mutedStyle.Render("envelope skipped"))
		return nil
	}
	fmt.Fprintln(w, titleStyle.Render("opening envelope"))
	g.Activate()

	timeout := time.NewTimer(cfg.Plan.Total() + 5*time.Second)
	defer timeout.Stop()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timeout.C:
		return fmt.Errorf("envelope did not reveal")
	}
}
