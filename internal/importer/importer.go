package importer

import (
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Candidate is one scraped listing, normalized for insertion as an external
// scholarship. Amounts are already converted to the smallest GMD unit.
type Candidate struct {
	Title                  string
	AmountGmd              int64
	Degree                 string
	Field                  string
	Description            string
	Deadline               time.Time
	Eligibility            []string
	ExternalApplicationURL string
}

const (
	primarySource     = "https://www.scholarships.com/financial-aid/college-scholarships/"
	alternativeSource = "https://www.scholarshipportal.com/"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	usdToGmd         = 70
	defaultAmountUsd = 50000
	minTitleLength   = 6
)

var (
	amountPattern   = regexp.MustCompile(`\$[\d,]+(?:\.\d{2})?`)
	deadlinePattern = regexp.MustCompile(`(?i)(\d{1,2}/\d{1,2}/\d{4}|\d{1,2}-\d{1,2}-\d{4}|(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4})`)
)

var client = &http.Client{Timeout: 20 * time.Second}

// FetchCandidates scrapes up to limit listings from the primary source, falling
// back to the alternative source when the primary yields too few.
func FetchCandidates(limit int) ([]Candidate, error) {
	candidates, err := fetchSource(primarySource, limit)

	if err != nil {
		log.Printf("Primary scholarship source failed: %v", err)
	}

	if len(candidates) < limit {
		alternative, altErr := fetchSource(alternativeSource, limit-len(candidates))
		if altErr != nil {
			log.Printf("Alternative scholarship source failed: %v", altErr)
		}
		candidates = append(candidates, alternative...)
	}

	if len(candidates) == 0 {
		if err != nil {
			return nil, fmt.Errorf("all scholarship sources failed: %w", err)
		}
		return nil, nil
	}

	return candidates, nil
}

func fetchSource(sourceURL string, limit int) ([]Candidate, error) {
	req, err := http.NewRequest(http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("source returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	return parseListing(doc, baseURL(sourceURL), limit), nil
}

func baseURL(sourceURL string) string {
	if idx := strings.Index(sourceURL, "://"); idx != -1 {
		if slash := strings.Index(sourceURL[idx+3:], "/"); slash != -1 {
			return sourceURL[:idx+3+slash]
		}
	}
	return sourceURL
}

// parseListing extracts candidates from a listing page. Individual entries that
// fail to parse are skipped.
func parseListing(doc *goquery.Document, base string, limit int) []Candidate {
	var candidates []Candidate

	doc.Find(`div[class*="scholarship"], div[class*="result"], article`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(candidates) >= limit {
			return false
		}

		title := firstText(sel, "h2", "h3", `a[class*="title"]`, ".scholarship-title", ".result-title")
		if len(title) < minTitleLength {
			return true
		}

		description := firstText(sel, "p", ".description", ".excerpt", ".details")

		link, _ := sel.Find("a").First().Attr("href")
		if link != "" && !strings.HasPrefix(link, "http") {
			link = base + link
		}
		if link == "" {
			link = base
		}

		if description == "" {
			description = fmt.Sprintf("Scholarship opportunity. Visit %s for more details and eligibility requirements.", link)
		}

		text := sel.Text()
		deadline := parseDeadline(text)

		candidates = append(candidates, Candidate{
			Title:       truncate(title, 250),
			AmountGmd:   parseAmountGmd(text),
			Degree:      "Bachelor/Masters",
			Field:       "Various Fields",
			Description: truncate(description, 1000),
			Deadline:    deadline,
			Eligibility: []string{
				"Check the official website for complete eligibility requirements",
				"Academic credentials and transcripts may be required",
				"Application deadline: " + deadline.Format("02 Jan 2006"),
				"International students may be eligible - verify with provider",
			},
			ExternalApplicationURL: link,
		})

		return true
	})

	return candidates
}

func firstText(sel *goquery.Selection, selectors ...string) string {
	for _, selector := range selectors {
		if text := strings.TrimSpace(sel.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func parseAmountGmd(text string) int64 {
	amountUsd := int64(defaultAmountUsd)

	if match := amountPattern.FindString(text); match != "" {
		cleaned := strings.NewReplacer("$", "", ",", "").Replace(match)
		if dot := strings.Index(cleaned, "."); dot != -1 {
			cleaned = cleaned[:dot]
		}
		if parsed, err := strconv.ParseInt(cleaned, 10, 64); err == nil && parsed > 0 {
			amountUsd = parsed
		}
	}

	return amountUsd * usdToGmd
}

func parseDeadline(text string) time.Time {
	fallback := time.Now().AddDate(1, 0, 0)

	match := deadlinePattern.FindString(text)
	if match == "" {
		return fallback
	}

	layouts := []string{"1/2/2006", "1-2-2006", "January 2, 2006", "January 2 2006"}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, match); err == nil {
			return parsed
		}
	}

	return fallback
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
