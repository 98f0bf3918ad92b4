package core

import "fmt"

// ActionKind is what a call-to-action does when activated
type ActionKind string

const (
	ActionScroll   ActionKind = "scroll"
	ActionNavigate ActionKind = "navigate"
)

// VideoAnchor is the in-page anchor of the video/benefits section
const VideoAnchor = "video"

// DefaultCheckoutURL is the hosted checkout page of the payment processor
const DefaultCheckoutURL = "https://pay.cakto.com.br/34ajqm9_394962"

// Action is either a smooth scroll to an anchor or a full page navigation
type Action struct {
	Kind   ActionKind
	Target string
}

// Href returns the link target a browser should follow
func (a Action) Href() string {
	if a.Kind == ActionScroll {
		return "#" + a.Target
	}
	return a.Target
}

// CTA is a named call-to-action on the page
type CTA struct {
	Name     string
	LabelKey string
	Action   Action
}

// CTA names, in page order
const (
	CTAHero       = "hero"
	CTAWatchVideo = "watch-video"
	CTABenefits   = "benefits"
	CTAModules    = "modules"
	CTAPricing    = "pricing"
	CTAOffer      = "offer"
	CTAFinal      = "final"
	CTASticky     = "sticky"
)

// Navigator resolves CTA names to actions
type Navigator struct {
	checkoutURL string
	ctas        map[string]CTA
	order       []string
}

// NewNavigator builds the page's CTA catalogue. Every purchase-intent CTA
// navigates to checkoutURL; the video CTA scrolls to the video anchor.
func NewNavigator(checkoutURL string) *Navigator {
	if checkoutURL == "" {
		checkoutURL = DefaultCheckoutURL
	}
	n := &Navigator{checkoutURL: checkoutURL, ctas: make(map[string]CTA)}

	checkout := Action{Kind: ActionNavigate, Target: checkoutURL}
	n.add(CTA{Name: CTAHero, LabelKey: "cta.hero", Action: checkout})
	n.add(CTA{Name: CTAWatchVideo, LabelKey: "cta.watch_video", Action: Action{Kind: ActionScroll, Target: VideoAnchor}})
	n.add(CTA{Name: CTABenefits, LabelKey: "cta.benefits", Action: checkout})
	n.add(CTA{Name: CTAModules, LabelKey: "cta.modules", Action: checkout})
	n.add(CTA{Name: CTAPricing, LabelKey: "cta.pricing", Action: checkout})
	n.add(CTA{Name: CTAOffer, LabelKey: "cta.offer", Action: checkout})
	n.add(CTA{Name: CTAFinal, LabelKey: "cta.final", Action: checkout})
	n.add(CTA{Name: CTASticky, LabelKey: "cta.sticky", Action: checkout})
	return n
}

func (n *Navigator) add(c CTA) {
	n.ctas[c.Name] = c
	n.order = append(n.order, c.Name)
}

// Resolve returns the CTA registered under name
func (n *Navigator) Resolve(name string) (CTA, error) {
	c, ok := n.ctas[name]
	if !ok {
		return CTA{}, fmt.Errorf("resolve %q: %w", name, ErrUnknownCTA)
	}
	return c, nil
}

// CTAs returns the catalogue in page order
func (n *Navigator) CTAs() []CTA {
	out := make([]CTA, 0, len(n.order))
	for _, name := range n.order {
		out = append(out, n.ctas[name])
	}
	return out
}

func (n *Navigator) CheckoutURL() string {
	return n.checkoutURL
}
