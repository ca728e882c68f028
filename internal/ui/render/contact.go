package render

import (
	"html"
	"strconv"
	"strings"

	"github.com/Its-donkey/portfolio/internal/contact"
	"github.com/Its-donkey/portfolio/internal/content"
	"github.com/Its-donkey/portfolio/internal/scrollspy"
)

// FieldID returns the DOM id of the input bound to field.
func FieldID(field contact.Field) string {
	return "contact-" + string(field)
}

// ErrorID returns the DOM id of the message shown under field.
func ErrorID(field contact.Field) string {
	return FieldID(field) + "-error"
}

var fieldLabels = map[contact.Field]string{
	contact.FieldName:    "Your Full Name",
	contact.FieldEmail:   "Your E-mail Address",
	contact.FieldMessage: "Your Message",
}

// ContactSection renders the contact section: form region, details and the
// success modal.
func ContactSection(p *content.Portfolio, snap contact.Snapshot) string {
	var b strings.Builder
	b.WriteString(`<section id="` + scrollspy.Contact + `" class="section contact">`)
	b.WriteString(`<p class="eyebrow">Let's Connect</p>`)
	b.WriteString(`<h2>Get in Touch</h2>`)
	b.WriteString(`<p class="lead">Ready to start your next project? Let's discuss how we can bring your ideas to life.</p>`)
	b.WriteString(`<div class="contact-grid">`)
	b.WriteString(`<div id="` + ContactRegionID + `" class="card">`)
	b.WriteString(ContactForm(snap))
	b.WriteString(`</div>`)

	b.WriteString(`<aside class="contact-details">`)
	b.WriteString(`<ul class="contact-info">`)
	for _, info := range p.ContactInfo {
		b.WriteString(`<li><span class="muted">` + html.EscapeString(info.Label) + `</span>`)
		if content.HasLink(info.Href) {
			b.WriteString(`<a href="` + html.EscapeString(info.Href) + `">` + html.EscapeString(info.Value) + `</a>`)
		} else {
			b.WriteString(`<span>` + html.EscapeString(info.Value) + `</span>`)
		}
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ul>`)
	b.WriteString(`<p class="availability">Available for work</p>`)
	b.WriteString(`</aside>`)
	b.WriteString(`</div>`)
	b.WriteString(SuccessModal(snap.Status.Success))
	b.WriteString(`</section>`)
	return b.String()
}

// ContactForm renders the form fields for snap. The client re-renders it into
// the form region after every state change.
func ContactForm(snap contact.Snapshot) string {
	var b strings.Builder
	formClass := "contact-form"
	if snap.Status.Submitting {
		formClass += " is-submitting"
	}
	b.WriteString(`<form id="` + ContactFormID + `" class="` + formClass + `" novalidate aria-live="polite">`)
	b.WriteString(`<div class="form-row">`)
	writeField(&b, contact.FieldName, snap)
	writeField(&b, contact.FieldEmail, snap)
	b.WriteString(`</div>`)
	writeField(&b, contact.FieldMessage, snap)

	b.WriteString(`<button type="submit" id="` + SubmitButtonID + `" class="button primary"`)
	if snap.Status.Submitting {
		b.WriteString(` disabled aria-busy="true"><span class="spinner"></span><span>Sending...</span>`)
	} else {
		b.WriteString(`><span>Send Message</span>`)
	}
	b.WriteString(`</button>`)
	b.WriteString(`</form>`)
	return b.String()
}

func writeField(b *strings.Builder, field contact.Field, snap contact.Snapshot) {
	value := snap.Form.Get(field)
	errMsg := snap.Errors.Get(field)
	id := FieldID(field)

	wrapper := "form-field"
	if value != "" {
		wrapper += " is-filled"
	}
	if errMsg != "" {
		wrapper += " form-field-error"
	}
	b.WriteString(`<div class="` + wrapper + `">`)
	invalid := ""
	if errMsg != "" {
		invalid = ` aria-invalid="true" aria-describedby="` + ErrorID(field) + `"`
	}
	if field == contact.FieldMessage {
		b.WriteString(`<textarea id="` + id + `" name="` + string(field) + `" rows="6" maxlength="` + strconv.Itoa(contact.MessageLimit()) + `"` + invalid + `>`)
		b.WriteString(html.EscapeString(value))
		b.WriteString(`</textarea>`)
	} else {
		inputType := "text"
		if field == contact.FieldEmail {
			inputType = "email"
		}
		b.WriteString(`<input type="` + inputType + `" id="` + id + `" name="` + string(field) + `" value="` + html.EscapeString(value) + `"` + invalid + ` />`)
	}
	b.WriteString(`<label for="` + id + `">` + fieldLabels[field] + `</label>`)
	if errMsg != "" {
		b.WriteString(`<p class="field-error" id="` + ErrorID(field) + `">` + html.EscapeString(errMsg) + `</p>`)
	}
	if field == contact.FieldMessage {
		b.WriteString(`<p class="counter" id="` + MessageCountID + `">` + MessageCounter(value) + `</p>`)
	}
	b.WriteString(`</div>`)
}

// MessageCounter renders the "used/limit" hint under the message field.
func MessageCounter(message string) string {
	return strconv.Itoa(contact.MessageLength(message)) + "/" + strconv.Itoa(contact.MessageLimit())
}

// SuccessModal renders the confirmation dialog, hidden unless show is set.
func SuccessModal(show bool) string {
	class := "modal-backdrop"
	if !show {
		class += " is-hidden"
	}
	var b strings.Builder
	b.WriteString(`<div id="` + SuccessModalID + `" class="` + class + `" role="dialog" aria-modal="true" aria-hidden="` + strconv.FormatBool(!show) + `">`)
	b.WriteString(`<div class="modal">`)
	b.WriteString(`<button type="button" id="` + SuccessCloseID + `" class="icon-button modal-close" aria-label="Close">✕</button>`)
	b.WriteString(`<h3>Message Sent!</h3>`)
	b.WriteString(`<p>` + html.EscapeString(SuccessMessage) + `</p>`)
	b.WriteString(`</div>`)
	b.WriteString(`</div>`)
	return b.String()
}
