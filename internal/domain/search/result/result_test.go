package result

import (
	"testing"

	"github.com/lilykang127/connect-ltv/internal/domain/profile"
)

func TestNew(t *testing.T) {
	p := profile.Reconstruct(42, profile.Attributes{
		FirstName:    "Grace",
		LastName:     "Hopper",
		Position:     "Admiral",
		Organization: "Navy",
		Location:     "Arlington",
		Email:        "grace@example.com",
		ProfileURL:   "https://www.linkedin.com/in/grace",
	})

	r := New(&p, "Works as Admiral at Navy.")

	if r.ID() != 42 {
		t.Errorf("ID = %d", r.ID())
	}
	if r.Name() != "Grace Hopper" {
		t.Errorf("Name = %q", r.Name())
	}
	if r.Position() != "Admiral" || r.Organization() != "Navy" {
		t.Errorf("Position/Organization = %q/%q", r.Position(), r.Organization())
	}
	if r.Email() != "grace@example.com" {
		t.Errorf("Email = %q", r.Email())
	}
	if r.ProfileURL() != "https://www.linkedin.com/in/grace" {
		t.Errorf("ProfileURL = %q", r.ProfileURL())
	}
	if r.Relevance() != "Works as Admiral at Navy." {
		t.Errorf("Relevance = %q", r.Relevance())
	}
}
