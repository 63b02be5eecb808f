package entity

import "time"

// PageSummary is an entry of the project page listing.
type PageSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Updated int64  `json:"updated"`
}

type PageList struct {
	ProjectName string        `json:"projectName"`
	Count       int           `json:"count"`
	Pages       []PageSummary `json:"pages"`
}

type Line struct {
	Text string `json:"text"`
}

// Page is the full content of a single Scrapbox page.
type Page struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Updated int64  `json:"updated"`
	Lines   []Line `json:"lines"`
}

// UpdatedAt converts the epoch-seconds edit time to a UTC timestamp.
func (p *Page) UpdatedAt() time.Time {
	return time.Unix(p.Updated, 0).UTC()
}
