package narration

import (
	"strings"

	"github.com/lilykang127/connect-ltv/internal/domain/profile"
)

// Narrator explains why a profile is relevant to a query.
// Implementations must be pure: the same (profile, query) yields the same text.
type Narrator interface {
	Narrate(p *profile.Profile, query string) string
}

// Template builds relevance text from the profile's own attributes only.
// The query is accepted for interface compatibility and never echoed.
type Template struct{}

var _ Narrator = Template{}

// Narrate emits, in fixed order and skipping empty sources:
// position at organization, function, stage, comments.
func (Template) Narrate(p *profile.Profile, _ string) string {
	parts := make([]string, 0, 4)

	if p.Position() != "" && p.Organization() != "" {
		parts = append(parts, "Works as "+p.Position()+" at "+p.Organization()+".")
	}
	if p.Function() != "" {
		parts = append(parts, "Works in "+p.Function()+".")
	}
	if p.Stage() != "" {
		parts = append(parts, "Has experience with "+p.Stage()+" stage companies.")
	}
	if p.Comments() != "" {
		parts = append(parts, p.Comments())
	}

	return strings.Join(parts, " ")
}

// Comments uses the profile's comments as relevance text. The detail view uses it.
type Comments struct{}

var _ Narrator = Comments{}

func (Comments) Narrate(p *profile.Profile, _ string) string { return p.Comments() }
