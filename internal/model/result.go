package model

// ProviderResult is the outcome of one provider invocation, including all
// of its retries. Exactly one of three shapes holds: a non-empty listing
// sequence, an explicit empty sequence, or a failure with Err set.
type ProviderResult struct {
	Provider string
	Listings []JobListing
	Err      error
	Attempts int
}

// Success builds a result for a provider call that completed, possibly with
// zero listings.
func Success(provider string, listings []JobListing, attempts int) ProviderResult {
	return ProviderResult{Provider: provider, Listings: listings, Attempts: attempts}
}

// Failure builds a result for a provider whose attempts were all spent or
// whose last error was not retryable.
func Failure(provider string, err error, attempts int) ProviderResult {
	return ProviderResult{
		Provider: provider,
		Err:      &ProviderError{Provider: provider, Attempts: attempts, Err: err},
		Attempts: attempts,
	}
}

// Failed reports whether the provider returned an error.
func (r ProviderResult) Failed() bool { return r.Err != nil }

// Empty reports whether the provider succeeded with no listings.
func (r ProviderResult) Empty() bool { return r.Err == nil && len(r.Listings) == 0 }

// Usable reports whether the coordinator can stop at this result.
func (r ProviderResult) Usable() bool { return r.Err == nil && len(r.Listings) > 0 }

// SearchResult is what a caller of the coordinator receives. Listings is
// never empty. Fallback is true when Listings is the static placeholder set.
type SearchResult struct {
	Query    string           `json:"query"`
	Provider string           `json:"provider"`
	Fallback bool             `json:"fallback"`
	Listings []JobListing     `json:"listings"`
	Trace    []ProviderResult `json:"-"`
}
