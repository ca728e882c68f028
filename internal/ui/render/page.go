// Package render builds the portfolio markup shared by the WASM client and
// the server-side navigation check.
package render

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/Its-donkey/portfolio/internal/contact"
	"github.com/Its-donkey/portfolio/internal/content"
	"github.com/Its-donkey/portfolio/internal/scrollspy"
	"github.com/Its-donkey/portfolio/internal/theme"
)

// Element ids the client binds to.
const (
	RootID          = "app-root"
	NavID           = "site-nav"
	MenuToggleID    = "menu-toggle"
	MobileMenuID    = "mobile-menu"
	ContactRegionID = "contact-form-region"
	ContactFormID   = "contact-form"
	SubmitButtonID  = "contact-submit"
	SuccessModalID  = "success-modal"
	SuccessCloseID  = "success-close"
	MessageCountID  = "contact-message-count"

	// NavAttr marks every element that scrolls to a section on click.
	NavAttr   = "data-nav"
	// ThemeAttr marks the theme toggles; the navbar renders one per layout.
	ThemeAttr = "data-theme-toggle"
)

// SuccessMessage is shown in the modal after a message is delivered.
const SuccessMessage = "Thank you for reaching out! I'll get back to you within 24 hours."

// View carries the client-side state that affects markup.
type View struct {
	Active   string
	Theme    theme.Mode
	MenuOpen bool
	Contact  contact.Snapshot
	Year     int
}

// Page returns the full application markup mounted into the root element.
func Page(p *content.Portfolio, v View) string {
	if v.Active == "" {
		v.Active = scrollspy.Home
	}
	var b strings.Builder
	b.WriteString(`<div class="app theme-` + string(modeOrLight(v.Theme)) + `">`)
	b.WriteString(`<nav id="` + NavID + `" class="site-nav">`)
	b.WriteString(Navbar(p, v.Active, v.Theme, v.MenuOpen))
	b.WriteString(`</nav>`)
	b.WriteString(`<main>`)
	b.WriteString(Hero(p))
	b.WriteString(Skills(p))
	b.WriteString(Projects(p))
	b.WriteString(About(p))
	b.WriteString(ContactSection(p, v.Contact))
	b.WriteString(`</main>`)
	b.WriteString(Footer(p, v.Year))
	b.WriteString(`</div>`)
	return b.String()
}

func modeOrLight(m theme.Mode) theme.Mode {
	if m == theme.Dark {
		return theme.Dark
	}
	return theme.Light
}

// Navbar renders the inner markup of the navigation bar.
func Navbar(p *content.Portfolio, active string, mode theme.Mode, menuOpen bool) string {
	var b strings.Builder
	b.WriteString(`<div class="nav-inner">`)
	b.WriteString(`<button type="button" class="nav-brand" ` + NavAttr + `="` + scrollspy.Home + `">`)
	b.WriteString(html.EscapeString(p.Owner.Name))
	b.WriteString(`</button>`)

	b.WriteString(`<div class="nav-links">`)
	writeNavItems(&b, p.Nav, active, "nav-link")
	b.WriteString(themeButton(mode))
	b.WriteString(`</div>`)

	b.WriteString(`<div class="nav-mobile-controls">`)
	b.WriteString(themeButton(mode))
	label, icon := "Open menu", "☰"
	if menuOpen {
		label, icon = "Close menu", "✕"
	}
	b.WriteString(`<button type="button" id="` + MenuToggleID + `" class="icon-button" aria-expanded="` + strconv.FormatBool(menuOpen) + `" aria-controls="` + MobileMenuID + `" aria-label="` + label + `">` + icon + `</button>`)
	b.WriteString(`</div>`)
	b.WriteString(`</div>`)

	menuClass := "mobile-menu"
	if !menuOpen {
		menuClass += " is-hidden"
	}
	b.WriteString(`<div id="` + MobileMenuID + `" class="` + menuClass + `">`)
	writeNavItems(&b, p.Nav, active, "mobile-link")
	b.WriteString(`</div>`)
	return b.String()
}

func writeNavItems(b *strings.Builder, items []content.NavItem, active, class string) {
	for _, item := range items {
		cls := class
		current := ""
		if item.ID == active {
			cls += " is-active"
			current = ` aria-current="true"`
		}
		b.WriteString(`<button type="button" class="` + cls + `" ` + NavAttr + `="` + html.EscapeString(item.ID) + `"` + current + `>`)
		b.WriteString(html.EscapeString(item.Label))
		b.WriteString(`</button>`)
	}
}

func themeButton(mode theme.Mode) string {
	label, icon := "Switch to dark theme", "☾"
	if mode.IsDark() {
		label, icon = "Switch to light theme", "☀"
	}
	return `<button type="button" class="icon-button theme-toggle" ` + ThemeAttr + ` aria-label="` + label + `">` + icon + `</button>`
}

// Hero renders the home section.
func Hero(p *content.Portfolio) string {
	var b strings.Builder
	b.WriteString(`<section id="` + scrollspy.Home + `" class="section hero">`)
	b.WriteString(`<p class="eyebrow">` + html.EscapeString(p.Owner.Title) + `</p>`)
	b.WriteString(`<h1>` + html.EscapeString(p.Owner.Name) + `</h1>`)
	if p.Owner.Tagline != "" {
		b.WriteString(`<p class="lead">` + html.EscapeString(p.Owner.Tagline) + `</p>`)
	}
	b.WriteString(`<div class="hero-actions">`)
	b.WriteString(`<button type="button" class="button primary" ` + NavAttr + `="` + scrollspy.Projects + `">View Work</button>`)
	b.WriteString(`<button type="button" class="button" ` + NavAttr + `="` + scrollspy.Contact + `">Get in Touch</button>`)
	b.WriteString(`</div>`)
	b.WriteString(`</section>`)
	return b.String()
}

// Skills renders the skill categories, tech stack and stats.
func Skills(p *content.Portfolio) string {
	var b strings.Builder
	b.WriteString(`<section id="` + scrollspy.Skills + `" class="section skills">`)
	b.WriteString(`<h2>Technical Expertise</h2>`)
	b.WriteString(`<div class="card-grid">`)
	for _, cat := range p.Skills {
		b.WriteString(`<article class="card skill-card">`)
		b.WriteString(`<h3>` + html.EscapeString(cat.Title) + `</h3>`)
		b.WriteString(`<p class="muted">` + html.EscapeString(cat.Description) + `</p>`)
		for _, s := range cat.Skills {
			b.WriteString(`<div class="skill">`)
			b.WriteString(`<div class="skill-head"><span>` + html.EscapeString(s.Name) + `</span><span>` + strconv.Itoa(s.Level) + `%</span></div>`)
			style := fmt.Sprintf("width:%d%%", s.Level)
			if s.Color != "" {
				style += ";background:" + s.Color
			}
			b.WriteString(`<div class="skill-bar"><div class="skill-fill" style="` + html.EscapeString(style) + `"></div></div>`)
			b.WriteString(`</div>`)
		}
		b.WriteString(`</article>`)
	}
	b.WriteString(`</div>`)

	if len(p.TechStack) > 0 {
		b.WriteString(`<h3 class="subhead">Also working with</h3><ul class="chips">`)
		for _, tech := range p.TechStack {
			b.WriteString(`<li class="chip">` + html.EscapeString(tech) + `</li>`)
		}
		b.WriteString(`</ul>`)
	}
	if len(p.Stats) > 0 {
		b.WriteString(`<dl class="stats">`)
		for _, st := range p.Stats {
			b.WriteString(`<div class="stat"><dt>` + html.EscapeString(st.Number) + `</dt><dd>` + html.EscapeString(st.Label) + `</dd></div>`)
		}
		b.WriteString(`</dl>`)
	}
	b.WriteString(`</section>`)
	return b.String()
}

// Projects renders the project cards.
func Projects(p *content.Portfolio) string {
	var b strings.Builder
	b.WriteString(`<section id="` + scrollspy.Projects + `" class="section projects">`)
	b.WriteString(`<h2>Featured Projects</h2>`)
	b.WriteString(`<div class="card-grid">`)
	for _, proj := range p.Projects {
		b.WriteString(`<article class="card project-card" data-project="` + strconv.Itoa(proj.ID) + `">`)
		if proj.Image != "" {
			b.WriteString(`<img src="` + html.EscapeString(proj.Image) + `" alt="` + html.EscapeString(proj.Title) + `" loading="lazy" />`)
		}
		if proj.Featured {
			b.WriteString(`<span class="badge">Featured</span>`)
		}
		b.WriteString(`<span class="category">` + html.EscapeString(proj.Category) + `</span>`)
		b.WriteString(`<h3>` + html.EscapeString(proj.Title) + `</h3>`)
		b.WriteString(`<p>` + html.EscapeString(proj.Description) + `</p>`)
		b.WriteString(`<ul class="chips">`)
		for _, tag := range proj.Tags {
			b.WriteString(`<li class="chip">` + html.EscapeString(tag) + `</li>`)
		}
		b.WriteString(`</ul>`)
		b.WriteString(`<div class="project-links">`)
		writeExternal(&b, proj.LiveURL, "Live Demo")
		writeExternal(&b, proj.GithubURL, "Code")
		b.WriteString(`</div>`)
		b.WriteString(`</article>`)
	}
	b.WriteString(`</div>`)
	b.WriteString(`</section>`)
	return b.String()
}

func writeExternal(b *strings.Builder, url, label string) {
	if !content.HasLink(url) {
		return
	}
	b.WriteString(`<a href="` + html.EscapeString(url) + `" target="_blank" rel="noopener noreferrer">` + html.EscapeString(label) + `</a>`)
}

// About renders the passions and the journey timeline.
func About(p *content.Portfolio) string {
	var b strings.Builder
	b.WriteString(`<section id="` + scrollspy.About + `" class="section about">`)
	b.WriteString(`<h2>About Me</h2>`)
	if len(p.Passions) > 0 {
		b.WriteString(`<div class="card-grid passions">`)
		for _, passion := range p.Passions {
			b.WriteString(`<article class="card"><h3>` + html.EscapeString(passion.Title) + `</h3><p>` + html.EscapeString(passion.Description) + `</p></article>`)
		}
		b.WriteString(`</div>`)
	}
	if len(p.Journey) > 0 {
		b.WriteString(`<h3 class="subhead">My Journey</h3><ol class="timeline">`)
		for _, step := range p.Journey {
			b.WriteString(`<li class="timeline-step">`)
			b.WriteString(`<span class="year">` + html.EscapeString(step.Year) + `</span>`)
			b.WriteString(`<h4>` + html.EscapeString(step.Title) + `</h4>`)
			b.WriteString(`<p class="muted">` + html.EscapeString(step.Company) + `</p>`)
			b.WriteString(`<p>` + html.EscapeString(step.Description) + `</p>`)
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ol>`)
	}
	b.WriteString(`</section>`)
	return b.String()
}

// Footer renders the page footer.
func Footer(p *content.Portfolio, year int) string {
	var b strings.Builder
	b.WriteString(`<footer class="site-footer">`)
	b.WriteString(`<ul class="social">`)
	for _, link := range p.Social {
		b.WriteString(`<li><a href="` + html.EscapeString(link.URL) + `" target="_blank" rel="noopener noreferrer">` + html.EscapeString(link.Name) + `</a></li>`)
	}
	b.WriteString(`</ul>`)
	if year > 0 {
		b.WriteString(`<p class="muted">© ` + strconv.Itoa(year) + ` ` + html.EscapeString(p.Owner.Name) + `</p>`)
	}
	b.WriteString(`</footer>`)
	return b.String()
}
