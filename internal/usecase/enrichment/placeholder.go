package enrichment

import (
	"context"
	"fmt"
	"strings"

	"github.com/lilykang127/connect-ltv/internal/domain/profile"
)

const (
	unknownUser    = "Unknown User"
	unknownCompany = "Unknown Company"
)

// Placeholder simulates a biography source by deriving text from the profile link.
// It never calls out and never fails.
type Placeholder struct{}

var _ Biographer = Placeholder{}

// Provider implements Biographer.
func (Placeholder) Provider() string { return "placeholder" }

// Biography implements Biographer.
func (Placeholder) Biography(_ context.Context, p *profile.Profile) (string, error) {
	user := segmentAfter(p.ProfileURL(), "in/", unknownUser)
	company := segmentAfter(p.ProfileURL(), "company/", unknownCompany)

	return fmt.Sprintf("About:\n%s\n\nExperience:\n%s\n\nEducation:\n%s",
		fmt.Sprintf("Simulated profile for %s. Live profile retrieval is not configured for this deployment.", user),
		fmt.Sprintf("%s has worked at %s among other companies. Configure a biography provider for real data.", user, company),
		fmt.Sprintf("%s has an education history that a live provider would fill in. Generated for demonstration.", user),
	), nil
}

// segmentAfter returns the path segment following marker in link, or fallback.
func segmentAfter(link, marker, fallback string) string {
	_, rest, ok := strings.Cut(link, marker)
	if !ok {
		return fallback
	}
	seg, _, _ := strings.Cut(rest, "/")
	seg, _, _ = strings.Cut(seg, "?")
	if seg == "" {
		return fallback
	}
	return seg
}
