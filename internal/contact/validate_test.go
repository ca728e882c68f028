package contact

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: MsgNameRequired},
		{name: "whitespace only", in: " \t ", want: MsgNameRequired},
		{name: "too short", in: "J", want: MsgNameLength},
		{name: "too long", in: strings.Repeat("a", 31), want: MsgNameLength},
		{name: "bounds inclusive low", in: "Jo", want: ""},
		{name: "bounds inclusive high", in: strings.Repeat("a", 30), want: ""},
		{name: "digits allowed", in: "John123", want: ""},
		{name: "inner spaces", in: "Mary Jane Watson", want: ""},
		{name: "punctuation", in: "John#!", want: MsgNameCharacters},
		{name: "accented letter", in: "José", want: MsgNameCharacters},
		// Length is checked before the character class.
		{name: "long and dirty", in: strings.Repeat("#", 31), want: MsgNameLength},
		{name: "raw length counts padding", in: " a", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidateName(tc.in))
		})
	}
}

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "", want: MsgEmailRequired},
		{in: "   ", want: MsgEmailRequired},
		{in: "bad-email", want: MsgEmailInvalid},
		{in: "john@x.com", want: ""},
		{in: "a.b+tag@sub.example.co", want: ""},
		{in: "john@x", want: MsgEmailInvalid},
		{in: "john@.com", want: MsgEmailInvalid},
		{in: "john@x.", want: MsgEmailInvalid},
		{in: "jo hn@x.com", want: MsgEmailInvalid},
		{in: "john@@x.com", want: MsgEmailInvalid},
		{in: " john@x.com", want: MsgEmailInvalid},
		{in: "@x.com", want: MsgEmailInvalid},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ValidateEmail(tc.in), "input %q", tc.in)
	}
}

func TestValidateEmailMatchesReferenceShape(t *testing.T) {
	reference := regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	inputs := []string{
		"a@b.c", "a@b..c", "a@.b.c", "a.@b.c", "ab@c.d.e", "a@b@c.d", "a b@c.d",
		"a@b.c\n", "x@y.z ", "@", "a@", "a@b", "a@b.", ".@..", "a@b.c.d.", "name@domain.io",
	}
	for _, in := range inputs {
		valid := ValidateEmail(in) == ""
		if strings.TrimSpace(in) == "" {
			continue
		}
		assert.Equal(t, reference.MatchString(in), valid, "input %q", in)
	}
}

func TestValidateMessage(t *testing.T) {
	assert.Equal(t, MsgMessageRequired, ValidateMessage(""))
	assert.Equal(t, MsgMessageRequired, ValidateMessage("\n\n"))
	assert.Equal(t, "", ValidateMessage("hi"))
	assert.Equal(t, "", ValidateMessage(strings.Repeat("x", 1500)))
	assert.Equal(t, MsgMessageTooLong, ValidateMessage(strings.Repeat("x", 1501)))
}

func TestMessageLengthCountsUTF16Units(t *testing.T) {
	// Each emoji is a surrogate pair in the browser.
	assert.Equal(t, 2, MessageLength("😀"))
	assert.Equal(t, MsgMessageTooLong, ValidateMessage(strings.Repeat("😀", 751)))
	assert.Equal(t, "", ValidateMessage(strings.Repeat("😀", 750)))
}

func TestValidatorsAreIdempotent(t *testing.T) {
	for _, in := range []string{"", "John", "john@x.com", strings.Repeat("z", 1501), "a#"} {
		assert.Equal(t, ValidateName(in), ValidateName(in))
		assert.Equal(t, ValidateEmail(in), ValidateEmail(in))
		assert.Equal(t, ValidateMessage(in), ValidateMessage(in))
	}
}

func TestFilterNameStripsKeystrokes(t *testing.T) {
	var stored string
	for _, r := range "John#!" {
		stored = FilterName(stored + string(r))
		assert.NotContains(t, stored, "#")
		assert.NotContains(t, stored, "!")
	}
	assert.Equal(t, "John", stored)
	assert.Equal(t, "Ann Lee 2", FilterName("Ann-Lee 2!"))
	assert.Equal(t, "", ValidateName(FilterName("Ann-Lee")))
}

func TestValidateAllScenarios(t *testing.T) {
	ok := ValidateAll(Form{Name: "John123", Email: "john@x.com", Message: "hi"})
	assert.False(t, ok.Any())

	bad := ValidateAll(Form{Name: "", Email: "bad-email", Message: strings.Repeat("m", 1501)})
	assert.Equal(t, Errors{Name: MsgNameRequired, Email: MsgEmailInvalid, Message: MsgMessageTooLong}, bad)
	assert.True(t, bad.Any())
}
