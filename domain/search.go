package domain

// SearchQuery is a free text query over posts and accounts.
type SearchQuery struct {
	Text string `validate:"required,max=200"`
}

// SearchResult holds matching posts and accounts, newest first. Posts are
// enriched for the viewer like feed entries.
type SearchResult struct {
	Posts    []FeedEntry      `json:"posts"`
	Accounts []AccountSummary `json:"accounts"`
}
