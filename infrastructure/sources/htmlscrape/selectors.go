package htmlscrape

// Selectors is the fixed path from a page to the fields of each item
type Selectors struct {
	// Item matches one entry in a listing or search page
	Item string

	// Title, Link, Image and Released are relative to Item
	Title    string
	Link     string
	Image    string
	Released string
	Episode  string

	// NextPage matches pagination links after the current page
	NextPage string

	// Detail page fields
	DetailTitle       string
	DetailImage       string
	DetailDescription string
	DetailInfo        string
	DetailEpisodes    string

	// StreamFrames matches embedded players and direct sources on episode pages
	StreamFrames string
	StreamLinks  string
}

// DefaultSelectors matches the gogoanime page layout
func DefaultSelectors() Selectors {
	return Selectors{
		Item:     "ul.items li",
		Title:    "p.name a",
		Link:     "p.name a",
		Image:    "div.img img",
		Released: "p.released",
		Episode:  "p.episode",
		NextPage: "ul.pagination-list li.selected ~ li a",

		DetailTitle:       ".anime_info_body_bg h1",
		DetailImage:       ".anime_info_body_bg img",
		DetailDescription: ".anime_info_body_bg .description",
		DetailInfo:        ".anime_info_body_bg p.type",
		DetailEpisodes:    "#episode_related li a",

		StreamFrames: "iframe[src], video source[src], source[src]",
		StreamLinks:  ".anime_muti_link a[data-video]",
	}
}
