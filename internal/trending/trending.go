package trending

// Contributor is a top contributor of a trending repository.
type Contributor struct {
	Avatar string `json:"avatar"`
	Name   string `json:"name"`
	URL    string `json:"url"`
}

// Item represents one repository on the daily trending list.
// Counts are kept as display strings exactly as the feed provides them
// ("1,234" etc.), so they survive republication unchanged.
type Item struct {
	Title         string        `json:"title"`
	URL           string        `json:"url"`
	Description   string        `json:"description"`
	Language      string        `json:"language,omitempty"`
	LanguageColor string        `json:"languageColor,omitempty"`
	Stars         string        `json:"stars"`
	Forks         string        `json:"forks"`
	AddStars      string        `json:"addStars"`
	Contributors  []Contributor `json:"contributors"`
}
