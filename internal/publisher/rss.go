package publisher

import (
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/abdulachik/trendfeed/internal/snapshot"
)

// FeedFileName is the syndication output artifact written per run.
const FeedFileName = "feed.xml"

const (
	feedTitle       = "GitHub Trending 日本語まとめ"
	feedDescription = "1日のGitHub Trendingを日本語で紹介"
	unknownLanguage = "不明"
)

// RSS is an RSS 2.0 document.
type RSS struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language"`
	PubDate     string    `xml:"pubDate"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
}

// BuildRSS converts a snapshot into an RSS 2.0 feed with one entry per
// item. All entries share the snapshot's generation timestamp as pubDate;
// the GUID combines the repository URL with the generation date so that a
// repository trending on consecutive days yields distinct entries.
func BuildRSS(snap *snapshot.Snapshot, siteURL string) *RSS {
	pubDate := snap.GeneratedAt.Format(time.RFC1123Z)
	day := snap.GeneratedAt.Format("2006-01-02")

	items := make([]rssItem, 0, len(snap.Items))
	for _, item := range snap.Items {
		lang := item.Language
		if lang == "" {
			lang = unknownLanguage
		}

		description := fmt.Sprintf(
			"%s<br><br>言語: %s<br>スター数: %s (+%s)<br>フォーク数: %s",
			html.EscapeString(item.Summary),
			html.EscapeString(lang),
			html.EscapeString(item.Stars),
			html.EscapeString(item.AddStars),
			html.EscapeString(item.Forks),
		)

		items = append(items, rssItem{
			Title:       fmt.Sprintf("%s - %s", item.Title, item.Summary),
			Link:        item.URL,
			Description: description,
			GUID:        fmt.Sprintf("%s-%s", item.URL, day),
			PubDate:     pubDate,
		})
	}

	return &RSS{
		Version: "2.0",
		Channel: rssChannel{
			Title:       feedTitle,
			Link:        siteURL,
			Description: feedDescription,
			Language:    "ja",
			PubDate:     pubDate,
			Items:       items,
		},
	}
}

// EncodeRSS writes the feed document with the XML declaration.
func EncodeRSS(w io.Writer, rss *RSS) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write xml header: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	if err := enc.Encode(rss); err != nil {
		return fmt.Errorf("encode xml: %w", err)
	}

	return nil
}

// WriteRSS persists the snapshot's feed as <dir>/feed.xml.
func WriteRSS(dir string, snap *snapshot.Snapshot, siteURL string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(dir, FeedFileName)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	if err := EncodeRSS(file, BuildRSS(snap, siteURL)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
