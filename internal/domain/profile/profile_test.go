package profile

import "testing"

func testProfile() Profile {
	return Reconstruct(7, Attributes{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Position:     "Partner",
		Organization: "Acme Ventures",
		Location:     "London",
		Function:     "Investing",
		Stage:        "Seed",
		Comments:     "Angel investor in fintech.",
		Email:        "ada@example.com",
		ProfileURL:   "https://www.linkedin.com/in/ada",
	})
}

func TestReconstruct_Accessors(t *testing.T) {
	p := testProfile()
	if p.ID() != 7 {
		t.Errorf("ID = %d, want 7", p.ID())
	}
	if p.Name() != "Ada Lovelace" {
		t.Errorf("Name = %q", p.Name())
	}
	if p.Organization() != "Acme Ventures" {
		t.Errorf("Organization = %q", p.Organization())
	}
	if p.Email() != "ada@example.com" {
		t.Errorf("Email = %q", p.Email())
	}
}

func TestName_Trimmed(t *testing.T) {
	tests := []struct {
		first, last, want string
	}{
		{"Ada", "", "Ada"},
		{"", "Lovelace", "Lovelace"},
		{"", "", ""},
		{" Ada ", " Lovelace ", "Ada   Lovelace"},
	}
	for _, tc := range tests {
		p := Reconstruct(1, Attributes{FirstName: tc.first, LastName: tc.last})
		if got := p.Name(); got != tc.want {
			t.Errorf("Name(%q, %q) = %q, want %q", tc.first, tc.last, got, tc.want)
		}
	}
}

func TestValue(t *testing.T) {
	p := testProfile()
	want := map[Field]string{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		FullName:     "Ada Lovelace",
		Position:     "Partner",
		Organization: "Acme Ventures",
		Location:     "London",
		Function:     "Investing",
		Stage:        "Seed",
		Comments:     "Angel investor in fintech.",
		Field("bogus"): "",
	}
	for f, w := range want {
		if got := p.Value(f); got != w {
			t.Errorf("Value(%q) = %q, want %q", f, got, w)
		}
	}
}

func TestSearchable_ExcludesFullName(t *testing.T) {
	for _, f := range Searchable() {
		if f == FullName {
			t.Fatal("Searchable must not include the derived name")
		}
		if !f.IsValid() {
			t.Errorf("%q.IsValid() = false", f)
		}
	}
	if len(Searchable()) != 8 {
		t.Errorf("len(Searchable) = %d, want 8", len(Searchable()))
	}
}

func TestField_IsValid(t *testing.T) {
	if Field("").IsValid() || Field("email").IsValid() {
		t.Error("unexpected valid field")
	}
	if !FullName.IsValid() {
		t.Error("FullName should be valid")
	}
}

func TestMailtoLink(t *testing.T) {
	p := testProfile()
	got := p.MailtoLink("Hello there", "Hi Ada,\n\n")
	want := "mailto:ada@example.com?subject=Hello%20there&body=Hi%20Ada%2C%0A%0A"
	if got != want {
		t.Errorf("MailtoLink = %q, want %q", got, want)
	}

	if got := p.MailtoLink("", ""); got != "mailto:ada@example.com" {
		t.Errorf("MailtoLink no params = %q", got)
	}

	noEmail := Reconstruct(2, Attributes{FirstName: "Bob"})
	if got := noEmail.MailtoLink("s", "b"); got != "" {
		t.Errorf("MailtoLink without email = %q, want empty", got)
	}
}

func TestDefaultBody(t *testing.T) {
	p := testProfile()
	if p.DefaultBody() != "Hi Ada,\n\n" {
		t.Errorf("DefaultBody = %q", p.DefaultBody())
	}
	anon := Reconstruct(3, Attributes{})
	if anon.DefaultBody() != "Hi,\n\n" {
		t.Errorf("DefaultBody anon = %q", anon.DefaultBody())
	}
}

func TestString(t *testing.T) {
	p := testProfile()
	if p.String() != "#7 Ada Lovelace" {
		t.Errorf("String = %q", p.String())
	}
}
