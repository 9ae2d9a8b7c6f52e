package chi

// ErrorResponseCode is a machine-readable error code.
type ErrorResponseCode string

// Error codes returned in ErrorResponse.Code.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed ErrorResponseCode = "validation_failed"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
	ErrorResponseCodeProfileNotFound  ErrorResponseCode = "profile_not_found"
	ErrorResponseCodeRetrievalFailed  ErrorResponseCode = "retrieval_failed"
	ErrorResponseCodeProviderError    ErrorResponseCode = "enrichment_provider_error"
	ErrorResponseCodeSuperseded       ErrorResponseCode = "superseded"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// SearchParams are the query parameters of GET /search.
type SearchParams struct {
	Q     *string `form:"q" json:"q,omitempty"`
	Limit *int    `form:"limit" json:"limit,omitempty"`
}

// SearchResultItem is one ranked profile.
type SearchResultItem struct {
	Id           int64  `json:"id"`
	Name         string `json:"name"`
	Position     string `json:"position"`
	Organization string `json:"organization"`
	Email        string `json:"email"`
	ProfileUrl   string `json:"profile_url"`
	Relevance    string `json:"relevance"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Query string             `json:"query"`
	Items []SearchResultItem `json:"items"`
	Count int                `json:"count"`
}

// ProfileResponse is the body of GET /profiles/{id}.
type ProfileResponse struct {
	Id           int64   `json:"id"`
	Name         string  `json:"name"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Position     string  `json:"position"`
	Organization string  `json:"organization"`
	Location     string  `json:"location"`
	Function     string  `json:"function"`
	Stage        string  `json:"stage"`
	Comments     string  `json:"comments"`
	Email        string  `json:"email"`
	ProfileUrl   string  `json:"profile_url"`
	Relevance    string  `json:"relevance"`
	Enrichment   *string `json:"enrichment"`
	MailtoLink   string  `json:"mailto_link,omitempty"`
}

// EnrichmentRequest is the body of POST /admin/enrichment.
type EnrichmentRequest struct {
	Limit *int `json:"limit,omitempty"`
}

// EnrichmentResponse reports an enrichment run.
type EnrichmentResponse struct {
	Message   string `json:"message"`
	Completed int    `json:"completed"`
	Failed    int    `json:"failed"`
	Total     int    `json:"total"`
}

// ExampleQuery is a sample search shown to new users.
type ExampleQuery struct {
	Category string `json:"category"`
	Query    string `json:"query"`
}

// ExamplesResponse is the body of GET /examples.
type ExamplesResponse struct {
	Items []ExampleQuery `json:"items"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
