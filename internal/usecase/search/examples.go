package search

// Example is a sample query shown to first-time users.
type Example struct {
	Category string
	Query    string
}

// Examples returns the sample queries in display order.
func Examples() []Example {
	return []Example{
		{
			Category: "Career guidance",
			Query: "Debating between joining or founding a startup after HBS. " +
				"Seeking insights from alumni 8-10 years out on both paths.",
		},
		{
			Category: "Seeking expertise",
			Query: "Need insights on early-stage enterprise SaaS for construction, focusing on workflow automation. " +
				"Looking for experts in operations and workflow management.",
		},
		{
			Category: "Building partnership",
			Query: "Looking for senior leaders in restaurant finance for partnerships on an invoice automation startup.",
		},
	}
}
