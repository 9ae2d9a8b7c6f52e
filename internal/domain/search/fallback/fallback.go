package fallback

// Policy decides what a search with no usable terms returns.
type Policy string

// Empty-query policies.
const (
	// ReturnNone yields an empty list without querying the store.
	ReturnNone Policy = "return_none"
	// ReturnAll yields an unfiltered page of profiles.
	ReturnAll Policy = "return_all"
)

// IsValid checks if the policy is one of the supported values.
func (p Policy) IsValid() bool {
	return p == ReturnNone || p == ReturnAll
}
