package profile

import (
	"net/url"
	"strconv"
	"strings"
)

// Attributes holds the raw text values of a profile. Absent values are "".
type Attributes struct {
	FirstName    string
	LastName     string
	Position     string
	Organization string
	Location     string
	Function     string
	Stage        string
	Comments     string
	Email        string
	ProfileURL   string
}

// Profile is an immutable alumni record.
type Profile struct {
	id    int64
	attrs Attributes
}

// Reconstruct restores a profile from stored data (no validation).
func Reconstruct(id int64, attrs Attributes) Profile {
	return Profile{id: id, attrs: attrs}
}

// ID returns the profile identifier.
func (p *Profile) ID() int64 { return p.id }

// Name returns the trimmed "first last" display name.
func (p *Profile) Name() string {
	return strings.TrimSpace(p.attrs.FirstName + " " + p.attrs.LastName)
}

func (p *Profile) FirstName() string    { return p.attrs.FirstName }
func (p *Profile) LastName() string     { return p.attrs.LastName }
func (p *Profile) Position() string     { return p.attrs.Position }
func (p *Profile) Organization() string { return p.attrs.Organization }
func (p *Profile) Location() string     { return p.attrs.Location }
func (p *Profile) Function() string     { return p.attrs.Function }
func (p *Profile) Stage() string        { return p.attrs.Stage }
func (p *Profile) Comments() string     { return p.attrs.Comments }
func (p *Profile) Email() string        { return p.attrs.Email }
func (p *Profile) ProfileURL() string   { return p.attrs.ProfileURL }

// Attributes returns a copy of the raw attribute values.
func (p *Profile) Attributes() Attributes { return p.attrs }

// Value returns the text of the given field. Unknown fields yield "".
func (p *Profile) Value(f Field) string {
	switch f {
	case FirstName:
		return p.attrs.FirstName
	case LastName:
		return p.attrs.LastName
	case FullName:
		return p.Name()
	case Position:
		return p.attrs.Position
	case Organization:
		return p.attrs.Organization
	case Location:
		return p.attrs.Location
	case Function:
		return p.attrs.Function
	case Stage:
		return p.attrs.Stage
	case Comments:
		return p.attrs.Comments
	}
	return ""
}

// MailtoLink builds a mailto: URI addressed to the profile's email.
// Returns "" when the profile has no email.
func (p *Profile) MailtoLink(subject, body string) string {
	if p.attrs.Email == "" {
		return ""
	}
	q := make([]string, 0, 2)
	if subject != "" {
		q = append(q, "subject="+escape(subject))
	}
	if body != "" {
		q = append(q, "body="+escape(body))
	}
	link := "mailto:" + p.attrs.Email
	if len(q) > 0 {
		link += "?" + strings.Join(q, "&")
	}
	return link
}

// escape encodes a mailto header value; spaces become %20 rather than "+".
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// DefaultSubject is the subject line of a first-contact email.
func (p *Profile) DefaultSubject() string {
	return "Reaching out from the alumni network"
}

// DefaultBody is the greeting of a first-contact email.
func (p *Profile) DefaultBody() string {
	if p.attrs.FirstName == "" {
		return "Hi,\n\n"
	}
	return "Hi " + p.attrs.FirstName + ",\n\n"
}

// String returns "#id name" for logs and CLI output.
func (p *Profile) String() string {
	return "#" + strconv.FormatInt(p.id, 10) + " " + p.Name()
}
