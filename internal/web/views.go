package web

import (
	"fmt"
	"hash/fnv"
	"net/url"
	"strings"
	"time"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"manual-estoico-landing/internal/content"
	"manual-estoico-landing/internal/core"
)

// pageData is everything a page or fragment render needs
type pageData struct {
	ViewID  string
	Lang    string
	Snap    core.Snapshot
	Catalog *content.Catalog
	CTAs    map[string]core.CTA
	T       func(key string) string
	Tf      func(key string, args ...interface{}) string
}

func (s *Server) newPageData(viewID, lang string, snap core.Snapshot) pageData {
	ctas := make(map[string]core.CTA)
	for _, c := range s.service.Navigator().CTAs() {
		ctas[c.Name] = c
	}
	return pageData{
		ViewID:  viewID,
		Lang:    lang,
		Snap:    snap,
		Catalog: s.catalog,
		CTAs:    ctas,
		T:       func(key string) string { return s.translator.T(lang, key) },
		Tf: func(key string, args ...interface{}) string {
			return s.translator.Tf(lang, key, args...)
		},
	}
}

func (d pageData) viewPath(suffix string) string {
	return "/views/" + url.PathEscape(d.ViewID) + suffix
}

func (s *Server) pageDocument(d pageData) g.Node {
	return Doctype(
		HTML(
			Lang(d.Lang),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				Meta(Name("description"), Content(d.T("site.description"))),
				g.El("title", g.Text(d.T("site.title"))),
				Link(Rel("stylesheet"), Href("/static/app.css")),
				Script(Src("/static/app.js"), Defer()),
			),
			Body(
				g.Attr("data-view", d.ViewID),
				g.Attr("data-events", "/events?view="+url.QueryEscape(d.ViewID)),
				spotsBanner(d),
				Main(
					heroSection(d),
					videoSection(d),
					s.modulesSection(d),
					offerSection(d, s),
					testimonialsSection(d),
					faqSection(d, s),
					finalSection(d),
				),
				stickyBar(d),
				purchaseToast(d),
				Div(ID("bonus-toast-slot")),
				footer(d),
			),
		),
	)
}

// ctaLink renders a call-to-action. Navigations go through /go/{cta} so the
// click lands in the ledger; scrolls stay on the page.
func ctaLink(d pageData, name, class string) g.Node {
	c, ok := d.CTAs[name]
	if !ok {
		return nil
	}
	href := "/go/" + url.PathEscape(c.Name)
	if c.Action.Kind == core.ActionScroll {
		href = c.Action.Href()
	}
	return A(
		Href(href),
		Class("btn "+class),
		g.Attr("data-cta", c.Name),
		g.Attr("data-action", string(c.Action.Kind)),
		g.Text(d.T(c.LabelKey)),
		g.If(c.Action.Kind == core.ActionNavigate, Span(Class("arrow"), g.Text("→"))),
	)
}

func spotsBanner(d pageData) g.Node {
	return Div(
		ID("spots-banner"),
		Class("spots-banner"),
		Span(Class("pulse-dot")),
		Strong(spotsText(d, "spots.left")),
	)
}

func spotsText(d pageData, key string) g.Node {
	// the count is wrapped so the script can update it in place
	parts := strings.SplitN(d.T(key), "%d", 2)
	if len(parts) != 2 {
		return g.Text(d.Tf(key, d.Snap.SpotsLeft))
	}
	return g.Group([]g.Node{
		g.Text(parts[0]),
		Span(Class("spots-count"), g.Textf("%d", d.Snap.SpotsLeft)),
		g.Text(parts[1]),
	})
}

func countdown(d pageData) g.Node {
	units := d.Snap.Countdown.Units()
	labels := [4]string{"countdown.days", "countdown.hours", "countdown.minutes", "countdown.seconds"}

	var cells []g.Node
	for i := range units {
		cells = append(cells, Div(
			Class("countdown-unit"),
			Span(Class("countdown-value"), ID(fmt.Sprintf("cd-%d", i)), g.Text(units[i])),
			Span(Class("countdown-label"), g.Text(d.T(labels[i]))),
		))
	}
	return Div(ID("countdown"), Class("countdown"), g.Group(cells))
}

func particles(d pageData) g.Node {
	h := fnv.New64a()
	h.Write([]byte(d.ViewID))

	var dots []g.Node
	for _, p := range core.Particles(h.Sum64(), d.Catalog.Particles) {
		dots = append(dots, Div(
			Class("particle"),
			g.Attr("style", fmt.Sprintf("width:%.1fpx;height:%.1fpx;top:%.1f%%;left:%.1f%%;animation-duration:%.1fs",
				p.Size, p.Size, p.Top, p.Left, p.Duration)),
		))
	}
	return Div(Class("particles"), g.Attr("aria-hidden", "true"), g.Group(dots))
}

func heroSection(d pageData) g.Node {
	c := d.Catalog

	var items []g.Node
	for _, item := range c.ProductItems {
		items = append(items, Li(Span(Class("check"), g.Text("✓")), g.Text(item)))
	}

	return Section(
		ID("hero"),
		Class("hero"),
		g.If(c.BackgroundURL != "", Div(Class("hero-bg"), g.Attr("style", "background-image:url('"+c.BackgroundURL+"')"))),
		particles(d),
		Div(
			Class("container"),
			Div(
				Class("countdown-box"),
				P(Class("countdown-title"), g.Text(d.T("countdown.title"))),
				countdown(d),
			),
			Div(
				Class("hero-grid"),
				Div(
					Class("hero-copy"),
					Span(Class("badge"), g.Text(d.T("hero.badge"))),
					H1(
						Span(Class("line"), g.Text(d.T("hero.title_1"))),
						Span(Class("line gold"), g.Text(d.T("hero.title_2"))),
					),
					P(Class("lead"),
						g.Text(d.T("hero.subtitle_pre")+" "),
						Strong(Class("gold"), g.Text(d.T("hero.subtitle_count"))),
						g.Text(" "+d.T("hero.subtitle_post")),
					),
					Div(Class("cta-row"),
						ctaLink(d, core.CTAHero, "btn-gold btn-lg"),
						ctaLink(d, core.CTAWatchVideo, "btn-outline btn-lg"),
					),
					Ul(Class("trust"),
						Li(g.Text("✓ "+d.T("hero.trust_access"))),
						Li(g.Text("🛡 "+d.T("hero.trust_guarantee"))),
						Li(g.Text("⏱ "+d.T("hero.trust_limited"))),
					),
				),
				Div(
					Class("book"),
					Img(Src(c.LogoURL), Alt(d.T("brand.logo_alt")), Class("book-logo")),
					H3(g.Text(d.T("brand.name"))),
					P(Class("edition"), g.Text(d.T("brand.edition"))),
					Ul(Class("book-items"), g.Group(items)),
					Span(Class("badge badge-gold"), g.Text(d.T("brand.bonus_badge"))),
					Div(Class("price-tag"),
						Span(Class("old"), g.Text(c.OldPrice)),
						Span(Class("new"), g.Text(c.Price)),
					),
				),
			),
		),
	)
}

func videoSection(d pageData) g.Node {
	c := d.Catalog

	var benefits []g.Node
	for _, b := range c.Benefits {
		benefits = append(benefits, Div(Class("card"),
			Span(Class("icon"), g.Text(b.Icon)),
			H3(g.Text(b.Title)),
			P(g.Text(b.Description)),
		))
	}
	var stats []g.Node
	for _, st := range c.Stats {
		stats = append(stats, Div(Class("stat"),
			Strong(Class("gold"), g.Text(st.Value)),
			P(g.Text(st.Label)),
		))
	}

	return Section(
		ID(core.VideoAnchor),
		Class("section gradient"),
		Div(
			Class("container"),
			Div(Class("video"),
				Span(Class("play"), g.Text("▶")),
				P(g.Text(d.T("video.play"))),
			),
			sectionHeading(d, "benefits"),
			Div(Class("grid grid-3"), g.Group(benefits)),
			Div(Class("grid grid-4 stats"), g.Group(stats)),
			Div(Class("center"), ctaLink(d, core.CTABenefits, "btn-gold btn-lg")),
		),
	)
}

// sectionHeading renders the badge, title and subtitle keys under prefix
func sectionHeading(d pageData, prefix string) g.Node {
	badge := d.T(prefix + ".badge")
	subtitle := d.T(prefix + ".subtitle")
	return Div(Class("heading"),
		g.If(badge != prefix+".badge", Span(Class("badge"), g.Text(badge))),
		H2(
			g.Text(d.T(prefix+".title")+" "),
			Span(Class("gold"), g.Text(d.T(prefix+".title_highlight"))),
		),
		g.If(subtitle != prefix+".subtitle", P(Class("lead"), g.Text(subtitle))),
	)
}

func (s *Server) modulesSection(d pageData) g.Node {
	var items []g.Node
	for i := range d.Catalog.Modules {
		items = append(items, s.moduleItem(d, i))
	}
	return Section(
		ID("modules"),
		Class("section"),
		Div(
			Class("container narrow"),
			sectionHeading(d, "modules"),
			Div(Class("stack"), g.Group(items)),
			Div(Class("center"), ctaLink(d, core.CTAModules, "btn-gold btn-lg")),
		),
	)
}

// moduleItem renders one course module; it is also the fragment returned
// by the module toggle
func (s *Server) moduleItem(d pageData, i int) g.Node {
	if i < 0 || i >= len(d.Catalog.Modules) {
		return nil
	}
	m := d.Catalog.Modules[i]
	open := i < len(d.Snap.Modules) && d.Snap.Modules[i]
	id := fmt.Sprintf("module-%d", i)

	var lessons []g.Node
	for _, l := range m.Lessons {
		lessons = append(lessons, Li(Span(Class("check"), g.Text("✓")), g.Text(l)))
	}

	return Div(
		ID(id),
		Class(classes("expandable", "open", open)),
		Form(
			Method("post"),
			Action(d.viewPath(fmt.Sprintf("/modules/%d/toggle", i))),
			g.Attr("data-swap", "#"+id),
			Button(
				Type("submit"),
				Class("expandable-head"),
				g.Attr("aria-expanded", fmt.Sprint(open)),
				Span(Class("number"), g.Textf("%d", m.Number)),
				Span(Class("icon"), g.Text(m.Icon)),
				Span(Class("title"),
					Strong(g.Text(m.Title)),
					g.If(!open, Small(g.Text(m.Description))),
				),
				Span(Class("chevron"), g.Text(chevron(open))),
			),
		),
		g.If(open, Div(Class("expandable-body"),
			P(g.Text(m.Description)),
			H4(g.Text(d.T("modules.lessons"))),
			Ul(Class("checks"), g.Group(lessons)),
		)),
	)
}

func offerSection(d pageData, s *Server) g.Node {
	c := d.Catalog

	var features []g.Node
	for _, f := range c.PricingFeatures {
		features = append(features, Li(Span(Class("check"), g.Text("✓")), g.Text(f)))
	}
	var included []g.Node
	for _, it := range c.Included {
		included = append(included, Li(Class("included"),
			Span(Class("marker"), g.Text(it.Marker)),
			Div(H4(g.Text(it.Title)), P(g.Text(it.Description))),
		))
	}

	return Section(
		ID("offer"),
		Class("section gradient"),
		Div(
			Class("container narrow"),
			Div(Class("tabs"),
				Button(Type("button"), Class("tab active"), g.Attr("data-tab", "bonus"), g.Text("🎁 "+d.T("tabs.bonus"))),
				Button(Type("button"), Class("tab"), g.Attr("data-tab", "pricing"), g.Text("✓ "+d.T("tabs.pricing"))),
			),
			Div(Class("tab-panel"), g.Attr("data-panel", "bonus"),
				s.bonusSection(d, false),
			),
			Div(Class("tab-panel hidden"), g.Attr("data-panel", "pricing"),
				Div(Class("grid grid-2"),
					Div(Class("card"),
						H3(g.Text(d.T("pricing.title"))),
						Div(Class("price"),
							Span(Class("old"), g.Text(d.T("pricing.from"))),
							Strong(Class("gold big"), g.Text(c.Price)),
							Span(g.Text(d.T("pricing.once"))),
						),
						Ul(Class("checks"), g.Group(features)),
						ctaLink(d, core.CTAPricing, "btn-gold btn-block"),
					),
					Div(Class("card"),
						H3(g.Text(d.T("pricing.included"))),
						Ul(Class("included-list"), g.Group(included)),
					),
				),
			),
			Div(Class("offer-box center"),
				H3(g.Text(d.T("offer.title")+" "), Span(Class("gold"), g.Text(c.Price))),
				P(Class("lead"), g.Text(d.T("offer.subtitle"))),
				ctaLink(d, core.CTAOffer, "btn-gold btn-lg"),
				P(Class("warning"), g.Text("⚠ "), spotsText(d, "spots.available")),
			),
		),
	)
}

// bonusSection renders the five bonus cards and the total; it is also the
// fragment returned by a reveal. justCompleted adds the completion toast.
func (s *Server) bonusSection(d pageData, justCompleted bool) g.Node {
	c := d.Catalog
	snap := d.Snap

	var cards []g.Node
	for i, b := range c.Bonuses {
		revealed := i < len(snap.Bonuses) && snap.Bonuses[i]
		value := core.HiddenValueLabel
		if revealed {
			value = d.Tf("bonus.value", b.Value)
		}
		cards = append(cards, Div(
			ID(fmt.Sprintf("bonus-%d", i)),
			Class(classes("bonus-card", "revealed", revealed)),
			Div(Class("bonus-head"),
				Span(Class("icon"), g.Text(b.Icon)),
				Div(
					H3(g.Text(b.Title), g.If(revealed, Span(Class("badge badge-free"), g.Text(d.T("bonus.free"))))),
					P(g.Text(b.Description)),
					P(Class("gold value"), g.Text(value)),
				),
			),
			g.If(!revealed, Form(
				Method("post"),
				Action(d.viewPath(fmt.Sprintf("/bonuses/%d/reveal", i))),
				g.Attr("data-swap", "#bonus-section"),
				Button(Type("submit"), Class("btn btn-outline btn-block"), g.Text("🔒 "+d.Tf("bonus.reveal", i+1))),
			)),
		))
	}

	summary := d.T("bonus.total_pending")
	if snap.AllBonusesRevealed {
		summary = d.T("bonus.total_done")
	}

	return Div(
		ID("bonus-section"),
		Class("bonus-section"),
		Div(Class("stack"), g.Group(cards)),
		Div(Class("bonus-total center"),
			H3(g.Text(d.T("bonus.total")+" "), Span(ID("bonus-total"), Class("gold"), g.Text(snap.BonusTotalLabel))),
			P(g.Text(summary)),
		),
		g.If(justCompleted, bonusToast(d)),
	)
}

func bonusToast(d pageData) g.Node {
	return Div(
		ID("bonus-toast"),
		Class("toast toast-success"),
		g.Attr("role", "status"),
		Strong(g.Text("🎉 "+d.T("bonus.complete_title"))),
		P(g.Text(d.Tf("bonus.complete_body", d.Snap.BonusTotalLabel))),
	)
}

func testimonialsSection(d pageData) g.Node {
	var cards []g.Node
	for _, t := range d.Catalog.Testimonials {
		cards = append(cards, Div(Class("card testimonial"),
			Div(Class("person"),
				Img(Src(t.Image), Alt(t.Name), g.Attr("loading", "lazy")),
				Div(H4(g.Text(t.Name)), P(Class("muted"), g.Text(t.Role))),
			),
			Div(Class("stars gold"), g.Text("★★★★★")),
			g.El("blockquote", g.Text("\""+t.Text+"\"")),
		))
	}

	var guarantee []g.Node
	for _, p := range d.Catalog.Guarantee {
		guarantee = append(guarantee, P(
			g.If(p.Highlight != "", Strong(Class("gold"), g.Text(p.Highlight+" "))),
			g.Text(p.Text),
		))
	}

	return Section(
		ID("testimonials"),
		Class("section"),
		Div(
			Class("container"),
			sectionHeading(d, "testimonials"),
			Div(Class("grid grid-3"), g.Group(cards)),
			Div(Class("guarantee card"),
				Span(Class("shield gold"), g.Text("🛡")),
				Div(H2(g.Text(d.T("guarantee.title"))), g.Group(guarantee)),
			),
		),
	)
}

func faqSection(d pageData, s *Server) g.Node {
	var items []g.Node
	for i := range d.Catalog.FAQ {
		items = append(items, s.faqItem(d, i))
	}
	return Section(
		ID("faq"),
		Class("section"),
		Div(Class("container narrow"),
			sectionHeading(d, "faq"),
			Div(Class("stack"), g.Group(items)),
		),
	)
}

// faqItem renders one question; it is also the toggle fragment
func (s *Server) faqItem(d pageData, i int) g.Node {
	if i < 0 || i >= len(d.Catalog.FAQ) {
		return nil
	}
	f := d.Catalog.FAQ[i]
	open := i < len(d.Snap.FAQ) && d.Snap.FAQ[i]
	id := fmt.Sprintf("faq-%d", i)

	return Div(
		ID(id),
		Class(classes("expandable", "open", open)),
		Form(
			Method("post"),
			Action(d.viewPath(fmt.Sprintf("/faq/%d/toggle", i))),
			g.Attr("data-swap", "#"+id),
			Button(
				Type("submit"),
				Class("expandable-head"),
				g.Attr("aria-expanded", fmt.Sprint(open)),
				Span(Class("title"), Strong(g.Text(f.Question))),
				Span(Class("chevron"), g.Text(chevron(open))),
			),
		),
		g.If(open, Div(Class("expandable-body"), P(g.Text(f.Answer)))),
	)
}

func finalSection(d pageData) g.Node {
	list := func(items []string, mark, class string) g.Node {
		var nodes []g.Node
		for _, it := range items {
			nodes = append(nodes, Li(Span(Class(class), g.Text(mark)), g.Text(it)))
		}
		return Ul(Class("checks"), g.Group(nodes))
	}

	return Section(
		ID("final"),
		Class("section gradient"),
		Div(Class("container narrow center"),
			Span(Class("badge badge-gold"), g.Text(d.T("final.badge"))),
			H2(g.Text(d.T("final.title")+" "), Span(Class("gold"), g.Text(d.T("final.title_highlight")))),
			P(Class("lead"), g.Text(d.T("final.subtitle"))),
			Div(Class("grid grid-2 paths"),
				Div(Class("card path-stay"),
					H3(g.Text("✕ "+d.T("final.path_stay"))),
					list(d.Catalog.PathStay, "✕", "cross"),
				),
				Div(Class("card path-change"),
					H3(g.Text("✓ "+d.T("final.path_change"))),
					list(d.Catalog.PathChange, "✓", "check"),
				),
			),
			P(Class("quote gold"), g.Text("\""+d.T("final.quote")+"\"")),
			ctaLink(d, core.CTAFinal, "btn-gold btn-xl"),
			P(Class("muted small"),
				g.Text("🔒 "+d.T("final.secure")+" • "+d.T("final.instant")+" • "+d.T("final.guarantee")),
			),
		),
	)
}

func stickyBar(d pageData) g.Node {
	return Div(
		ID("sticky-cta"),
		Class(classes("sticky-cta", "visible", d.Snap.StickyVisible)),
		Div(Class("container sticky-inner"),
			Div(
				Strong(g.Text(d.T("brand.full"))),
				Span(Class("old"), g.Text(d.Catalog.OldPrice)),
				Span(Class("gold"), g.Text(d.Catalog.Price)),
			),
			Div(Class("sticky-timer"),
				g.Text("⏱ "+d.T("sticky.expires")+" "),
				Span(ID("sticky-countdown"), g.Text(d.Snap.Countdown.String())),
			),
			ctaLink(d, core.CTASticky, "btn-gold"),
		),
	)
}

func purchaseToast(d pageData) g.Node {
	return Div(
		ID("purchase-toast"),
		Class(classes("toast toast-purchase", "visible", d.Snap.NotificationVisible)),
		g.Attr("role", "status"),
		Div(
			P(Strong(Class("gold"), g.Text(d.T("notification.buyer"))), g.Text(" "+d.T("notification.action"))),
			P(Class("muted small"), g.Text(d.T("notification.when"))),
		),
		Form(
			Method("post"),
			Action(d.viewPath("/notification/close")),
			g.Attr("data-swap", ""),
			Button(Type("submit"), Class("close"), g.Attr("aria-label", d.T("notification.close")), g.Text("×")),
		),
	)
}

func footer(d pageData) g.Node {
	return Footer(
		Class("footer"),
		Div(Class("container footer-inner"),
			Strong(g.Text("📖 "+d.T("brand.name"))),
			Nav(
				A(Href("#"), g.Text(d.T("footer.terms"))),
				A(Href("#"), g.Text(d.T("footer.privacy"))),
				A(Href("#"), g.Text(d.T("footer.contact"))),
				A(Href("/locale?lang="+d.T("locale.switch_to")), g.Text(d.T("locale.switch"))),
			),
			P(Class("small"), g.Text(d.Tf("footer.rights", time.Now().Year()))),
		),
	)
}

func classes(base, extra string, on bool) string {
	if on {
		return base + " " + extra
	}
	return base
}

func chevron(open bool) string {
	if open {
		return "▲"
	}
	return "▼"
}
