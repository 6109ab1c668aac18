package invites

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aura-invites/backend/internal/catalog"
	"github.com/aura-invites/backend/internal/envelope"
	"github.com/aura-invites/backend/internal/export"
	"github.com/aura-invites/backend/internal/i18n"
	"github.com/aura-invites/backend/internal/models"
	"github.com/aura-invites/backend/internal/render"
	apperrors "github.com/aura-invites/backend/pkg/errors"
	"github.com/aura-invites/backend/pkg/response"
)

const viewBumpTimeout = 2 * time.Second

// PublicConfig configures the guest-facing pages.
type PublicConfig struct {
	BaseURL  string
	Locale   string
	TimeZone *time.Location
}

// PublicHandler serves published invitations, the demo gallery and the
// template listing. No authentication.
type PublicHandler struct {
	svc       *Service
	views     ViewCounter
	cfg       PublicConfig
	renderers map[string]*render.Renderer
	logger    *zap.Logger
}

// NewPublicHandler creates the public handler. views may be nil.
func NewPublicHandler(svc *Service, views ViewCounter, cfg PublicConfig, logger *zap.Logger) *PublicHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TimeZone == nil {
		cfg.TimeZone = time.UTC
	}
	def := i18n.New(cfg.Locale)
	cfg.Locale = def.Locale()
	renderers := map[string]*render.Renderer{cfg.Locale: render.NewRenderer(def)}
	if b, err := i18n.Default(); err == nil {
		for _, l := range b.Locales() {
			if _, ok := renderers[l]; !ok {
				renderers[l] = render.NewRenderer(i18n.New(l))
			}
		}
	}
	return &PublicHandler{svc: svc, views: views, cfg: cfg, renderers: renderers, logger: logger}
}

// rendererFor picks the renderer for ?lang=, falling back to the default
// locale.
func (h *PublicHandler) rendererFor(c *gin.Context) *render.Renderer {
	if r, ok := h.renderers[c.Query("lang")]; ok {
		return r
	}
	return h.renderers[h.cfg.Locale]
}

func wantsJSON(c *gin.Context) bool {
	return c.Query("format") == "json"
}

// gateConfig is the envelope configuration of a page. Only the demo gallery
// lets visitors skip the animation.
func gateConfig(inv models.Invitation, demo bool) envelope.Config {
	return envelope.Config{
		CanSkip:      demo,
		SkipEnvelope: inv.SkipEnvelope,
		AudioURL:     inv.AudioURL,
	}
}

// PagePayload is the JSON form of a page.
type PagePayload struct {
	Document    render.Document   `json:"document"`
	Envelope    envelope.Snapshot `json:"envelope"`
	Meta        render.PageMeta   `json:"meta"`
	CalendarURL string            `json:"calendar_url,omitempty"`
	ICSURL      string            `json:"ics_url,omitempty"`
}

type pageOptions struct {
	showRSVP bool
	gate     envelope.Config
	ics      bool
}

// Page handles GET /i/:slug. Drafts and unknown slugs are 404.
func (h *PublicHandler) Page(c *gin.Context) {
	r := h.rendererFor(c)
	inv, err := h.svc.Published(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if apperrors.IsNotFound(err) && !wantsJSON(c) {
			templ.Handler(render.NotFoundPage(r.Localizer()), templ.WithStatus(http.StatusNotFound)).ServeHTTP(c.Writer, c.Request)
			return
		}
		if !apperrors.IsNotFound(err) {
			h.logger.Error("load invitation failed", zap.Error(err), zap.String("slug", c.Param("slug")))
		}
		response.FromError(c, err)
		return
	}
	if inv.ID != nil {
		h.bumpViews(*inv.ID)
	}
	h.serve(c, r, *inv, pageOptions{showRSVP: true, gate: gateConfig(*inv, false), ics: true})
}

// Demo handles GET /demo/:templateId with sample content. Unknown ids fall
// back to the default template.
func (h *PublicHandler) Demo(c *gin.Context) {
	raw := c.Param("templateId")
	id := catalog.CoerceID(raw)
	if string(id) != raw {
		h.logger.Debug("unknown template id, using default", zap.String("requested", raw), zap.String("template_id", string(id)))
	}
	inv := render.Sample(id)
	h.serve(c, h.rendererFor(c), inv, pageOptions{showRSVP: false, gate: gateConfig(inv, true)})
}

// Calendar handles GET /i/:slug/calendar.ics.
func (h *PublicHandler) Calendar(c *gin.Context) {
	r := h.rendererFor(c)
	inv, err := h.svc.Published(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	ev, err := export.EventFor(*inv, h.cfg.TimeZone, r.Localizer())
	if err != nil {
		h.logger.Error("build calendar event failed", zap.Error(err), zap.String("slug", inv.Slug))
		response.Internal(c, response.MsgInternal)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+ev.Filename()+`"`)
	c.Data(http.StatusOK, export.ICSContentType, []byte(ev.ICS(time.Now())))
}

// Templates handles GET /api/templates?tag=.
func (h *PublicHandler) Templates(c *gin.Context) {
	tag, ok := catalog.ParseTag(c.Query("tag"))
	if !ok {
		response.Invalid(c, map[string]string{"tag": "is not a known tag"})
		return
	}
	loc := h.rendererFor(c).Localizer()
	tags := make([]gin.H, 0, len(catalog.Tags()))
	for _, t := range catalog.Tags() {
		tags = append(tags, gin.H{"id": t.ID, "label": loc.T(t.LabelKey)})
	}
	response.OK(c, gin.H{
		"tag":       tag,
		"templates": catalog.FilterByTag(tag),
		"tags":      tags,
	})
}

func (h *PublicHandler) bumpViews(id uuid.UUID) {
	if h.views == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), viewBumpTimeout)
		defer cancel()
		apperrors.BestEffort(h.logger, "increment views", h.views.Increment(ctx, id))
	}()
}

func (h *PublicHandler) serve(c *gin.Context, r *render.Renderer, inv models.Invitation, opts pageOptions) {
	loc := r.Localizer()
	doc := r.Render(inv, opts.showRSVP)
	meta := render.MetaFor(inv, h.cfg.BaseURL, loc)
	snap := envelope.Describe(opts.gate)

	var links render.CalendarLinks
	if ev, err := export.EventFor(inv, h.cfg.TimeZone, loc); err == nil {
		links.Google = ev.GoogleCalendarURL()
	} else {
		apperrors.BestEffort(h.logger, "calendar link", err)
	}
	if opts.ics {
		links.ICS = "/i/" + inv.Slug + "/calendar.ics"
	}

	if wantsJSON(c) {
		response.OK(c, PagePayload{
			Document:    doc,
			Envelope:    snap,
			Meta:        meta,
			CalendarURL: links.Google,
			ICSURL:      links.ICS,
		})
		return
	}

	plan, err := json.Marshal(snap.Stages)
	if err != nil {
		h.logger.Error("encode envelope plan failed", zap.Error(err))
		response.Internal(c, response.MsgInternal)
		return
	}
	head := render.NewHead(loc.T("meta.default_title"))
	restore := head.Acquire(meta)
	defer restore()

	page := render.Page{
		Doc:  doc,
		Head: head,
		Gate: &render.Gate{
			InitialState: string(snap.InitialState),
			CanSkip:      snap.CanSkip,
			AudioURL:     snap.AudioURL,
			PlanJSON:     string(plan),
		},
		Calendar: &links,
		Lang:     langOf(loc.Locale()),
		Local:    loc,
	}
	templ.Handler(render.HTML(page)).ServeHTTP(c.Writer, c.Request)
}

func langOf(locale string) string {
	lang, _, _ := strings.Cut(locale, "-")
	return lang
}
