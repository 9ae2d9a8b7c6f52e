// Package connectltv embeds the alumni directory search in a Go program.
//
// The client opens the same record stores as the server (SQLite, Postgres,
// Redis or Valkey) and exposes search, profile detail, batch enrichment and
// CSV seeding without an HTTP hop.
//
//	client, err := connectltv.New(ctx, connectltv.WithSQLite("data/alumni.db"))
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	results, _ := client.Search(ctx, "fintech founders in Boston", 10)
//	for _, r := range results {
//	    fmt.Println(r.Name, "-", r.Relevance)
//	}
//
//	p, _ := client.Profile(ctx, results[0].ID)
//	fmt.Println(p.MailtoLink)
//
// Searches on one Client follow last-request-wins: starting a search cancels
// the previous one, which returns ErrSuperseded. Use one Client per session.
package connectltv
