package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	profileuc "github.com/lilykang127/connect-ltv/internal/usecase/profile"
)

var (
	mailSubject string
	mailBody    string
)

var profileCmd = &cobra.Command{
	Use:   "profile <id>",
	Short: "Show one profile with an email draft link",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfile,
}

func init() {
	profileCmd.Flags().StringVar(&mailSubject, "subject", "", "email subject (default: a standard introduction)")
	profileCmd.Flags().StringVar(&mailBody, "body", "", "email body (default: a greeting with the first name)")
}

type profileOutput struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Position     string  `json:"position"`
	Organization string  `json:"organization"`
	Location     string  `json:"location"`
	Function     string  `json:"function"`
	Stage        string  `json:"stage"`
	Comments     string  `json:"comments"`
	Email        string  `json:"email"`
	ProfileURL   string  `json:"profile_url"`
	Enrichment   *string `json:"enrichment"`
	MailtoLink   string  `json:"mailto_link,omitempty"`
}

func runProfile(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid profile id %q", args[0])
	}

	ctx, a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	d, err := a.Profiles.Get(ctx, id)
	if err != nil {
		return err
	}

	out := newProfileOutput(&d)
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		return enc.Encode(out)
	}
	writeProfile(cmd.OutOrStdout(), &out)
	return nil
}

func newProfileOutput(d *profileuc.Detail) profileOutput {
	p := &d.Profile
	subject, body := mailSubject, mailBody
	if subject == "" {
		subject = p.DefaultSubject()
	}
	if body == "" {
		body = p.DefaultBody()
	}

	out := profileOutput{
		ID:           p.ID(),
		Name:         p.Name(),
		Position:     p.Position(),
		Organization: p.Organization(),
		Location:     p.Location(),
		Function:     p.Function(),
		Stage:        p.Stage(),
		Comments:     p.Comments(),
		Email:        p.Email(),
		ProfileURL:   p.ProfileURL(),
		MailtoLink:   p.MailtoLink(subject, body),
	}
	if d.HasEnrichment {
		text := d.Enrichment
		out.Enrichment = &text
	}
	return out
}

func writeProfile(w io.Writer, p *profileOutput) {
	fmt.Fprintf(w, "#%d %s\n", p.ID, p.Name)
	field := func(label, v string) {
		if v != "" {
			fmt.Fprintf(w, "  %-13s %s\n", label+":", v)
		}
	}
	field("Position", p.Position)
	field("Organization", p.Organization)
	field("Location", p.Location)
	field("Function", p.Function)
	field("Stage", p.Stage)
	field("Email", p.Email)
	field("Profile", p.ProfileURL)
	if p.Comments != "" {
		fmt.Fprintf(w, "\n%s\n", p.Comments)
	}
	if p.Enrichment != nil {
		fmt.Fprintf(w, "\n%s\n", *p.Enrichment)
	}
	if p.MailtoLink != "" {
		fmt.Fprintf(w, "\nEmail draft: %s\n", p.MailtoLink)
	}
}
