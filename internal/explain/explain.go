// Package explain builds human-readable narratives for instrument movements
// from performance figures and ranked news. Every function here is a pure
// function of its inputs; ranking thresholds and wording bands are fixed
// business rules that tests pin down exactly.
package explain

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"newssense/internal/models"
)

const noNewsClause = "No recent news directly related to this instrument was found."

// RelatedNews returns the subset of records relevant to the instrument: those
// whose entity set contains the instrument name, or whose body text contains
// the name as a substring. Input order is preserved.
func RelatedNews(inst models.Instrument, records []models.NewsRecord) []models.NewsRecord {
	lowerName := strings.ToLower(inst.Name)
	var related []models.NewsRecord
	for _, rec := range records {
		if rec.Mentions(lowerName) {
			related = append(related, rec)
		}
	}
	return related
}

// RankNews stable-sorts records by impact ordinal descending, then publish
// timestamp descending. Records with equal impact and timestamp keep their
// original relative order.
func RankNews(records []models.NewsRecord) []models.NewsRecord {
	ranked := make([]models.NewsRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		oi, oj := ranked[i].Impact.Ordinal(), ranked[j].Impact.Ordinal()
		if oi != oj {
			return oi > oj
		}
		return ranked[i].PublishedAt.After(ranked[j].PublishedAt)
	})
	return ranked
}

// Short produces a one-paragraph explanation of the instrument's move.
func Short(inst models.Instrument, records []models.NewsRecord) string {
	var sb strings.Builder

	if inst.Performance >= 0 {
		sb.WriteString(fmt.Sprintf("%s is performing well with a return of %.2f%% for the period.", inst.Name, inst.Performance))
	} else {
		sb.WriteString(fmt.Sprintf("%s is underperforming with a return of %.2f%% for the period.", inst.Name, inst.Performance))
	}

	related := RelatedNews(inst, records)
	if len(related) > 0 {
		top := RankNews(related)[0]
		quoted := top.Summary
		if quoted == "" {
			quoted = top.Title
		}
		sb.WriteString(fmt.Sprintf(" The move appears linked to %s coverage from %s: %q.",
			top.Sentiment, top.Source, quoted))
	} else {
		sb.WriteString(" " + noNewsClause)
	}

	sb.WriteString(" " + sectorClause(inst))
	return sb.String()
}

// sectorClause differs by instrument category: funds speak to sector
// concentration, stocks to sector-trend exposure.
func sectorClause(inst models.Instrument) string {
	switch inst.Category {
	case models.CategoryMutualFund:
		return fmt.Sprintf("As a mutual fund, its concentration in the %s sector shapes its returns.", inst.Sector)
	case models.CategoryETF:
		return fmt.Sprintf("As an ETF tracking the %s segment, it moves with the basket it holds.", inst.Sector)
	default:
		return fmt.Sprintf("As a %s sector stock, it remains exposed to trends across the sector.", inst.Sector)
	}
}

// Detailed produces the multi-section narrative for the instrument. Sections
// appear in fixed order; the sentiment-distribution section is omitted
// entirely when no related news exists.
func Detailed(inst models.Instrument, records []models.NewsRecord) string {
	related := RelatedNews(inst, records)

	var sections []string
	sections = append(sections, header(inst))
	sections = append(sections, movementCommentary(inst))

	if len(related) > 0 {
		sections = append(sections, sentimentSection(related))
		sections = append(sections, topNewsSection(related))
	} else {
		sections = append(sections, noNewsClause)
	}

	sections = append(sections, categoryInsights(inst))
	sections = append(sections, fmt.Sprintf("Summary: %s", Short(inst, records)))
	sections = append(sections, fmt.Sprintf("Outlook: %s.", Outlook(inst, related)))

	return strings.Join(sections, "\n\n")
}

func header(inst models.Instrument) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%s) — %s sector\n", inst.Name, inst.Category, inst.Sector))
	sb.WriteString(fmt.Sprintf("Period performance: %+.2f%% | Latest session: %+.2f%%", inst.Performance, inst.ChangePercent))
	if inst.Price != nil {
		sb.WriteString(fmt.Sprintf(" | Price: %.2f", *inst.Price))
	}
	if inst.NAV != nil {
		sb.WriteString(fmt.Sprintf(" | NAV: %.2f", *inst.NAV))
	}
	return sb.String()
}

// movementCommentary bands the move magnitude and compares it to the broader
// market via performance minus the latest-session change.
func movementCommentary(inst models.Instrument) string {
	word := "gain"
	if inst.Performance < 0 {
		word = "decline"
	}

	var band string
	switch {
	case math.Abs(inst.Performance) > 5:
		band = "significant"
	case math.Abs(inst.Performance) > 2:
		band = "moderate"
	default:
		band = "small"
	}

	diff := inst.Performance - inst.ChangePercent
	var relative string
	switch {
	case math.Abs(diff) < 0.5:
		relative = "in line with the broader market"
	case diff > 0:
		relative = fmt.Sprintf("outperforming the broader market by %.2f%%", diff)
	default:
		relative = fmt.Sprintf("underperforming the broader market by %.2f%%", math.Abs(diff))
	}

	return fmt.Sprintf("The instrument shows a %s %s of %.2f%% for the period, %s.",
		band, word, math.Abs(inst.Performance), relative)
}

// sentimentLabelOrder fixes tie-breaking for the distribution section.
var sentimentLabelOrder = []models.Sentiment{
	models.SentimentPositive,
	models.SentimentNegative,
	models.SentimentNeutral,
	models.SentimentMixed,
}

// SentimentShare is one entry of the sentiment distribution.
type SentimentShare struct {
	Label   models.Sentiment
	Percent float64
}

// SentimentDistribution computes per-label percentages over the related-news
// set, sorted by percentage descending. Labels with zero share are dropped.
func SentimentDistribution(records []models.NewsRecord) []SentimentShare {
	if len(records) == 0 {
		return nil
	}
	counts := make(map[models.Sentiment]int)
	for _, rec := range records {
		counts[rec.Sentiment]++
	}

	var shares []SentimentShare
	for _, label := range sentimentLabelOrder {
		if c := counts[label]; c > 0 {
			shares = append(shares, SentimentShare{
				Label:   label,
				Percent: float64(c) / float64(len(records)) * 100,
			})
		}
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Percent > shares[j].Percent
	})
	return shares
}

func sentimentSection(related []models.NewsRecord) string {
	shares := SentimentDistribution(related)

	var parts []string
	for _, share := range shares {
		parts = append(parts, fmt.Sprintf("%s %.2f%%", share.Label, share.Percent))
	}

	dominant := shares[0].Label
	var reading string
	switch dominant {
	case models.SentimentPositive:
		reading = "supporting the move"
	case models.SentimentNegative:
		reading = "pressuring the price"
	default:
		reading = "leaving direction uncertain"
	}

	return fmt.Sprintf("News sentiment distribution: %s. The dominant sentiment is %s, %s.",
		strings.Join(parts, ", "), dominant, reading)
}

func topNewsSection(related []models.NewsRecord) string {
	ranked := RankNews(related)
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}

	var sb strings.Builder
	sb.WriteString("Top related news:")
	for i, rec := range ranked {
		sb.WriteString(fmt.Sprintf("\n%d. %q (%s, %s impact, %s)",
			i+1, rec.Title, rec.Source, rec.Impact, rec.Sentiment))
	}
	return sb.String()
}

// categoryInsights adds fund holdings or the stock technical read. The
// technical indication is a fixed decision table over the sign pair of
// period performance and the latest-session change.
func categoryInsights(inst models.Instrument) string {
	switch inst.Category {
	case models.CategoryMutualFund, models.CategoryETF:
		if len(inst.Holdings) == 0 {
			return fmt.Sprintf("Holdings data for %s is not available.", inst.Name)
		}
		top := inst.Holdings
		if len(top) > 3 {
			top = top[:3]
		}
		var parts []string
		for _, h := range top {
			parts = append(parts, fmt.Sprintf("%s (%.2f%%)", h.Name, h.Weight))
		}
		return fmt.Sprintf("Top holdings: %s.", strings.Join(parts, ", "))
	default:
		return fmt.Sprintf("Technical view: %s. Sector positioning within %s remains the key driver to watch.",
			technicalIndication(inst), inst.Sector)
	}
}

func technicalIndication(inst models.Instrument) string {
	perfUp := inst.Performance >= 0
	changeUp := inst.ChangePercent >= 0
	switch {
	case perfUp && changeUp:
		return "continued upward momentum"
	case perfUp && !changeUp:
		return "potential reversal after recent gains"
	case !perfUp && changeUp:
		return "early signs of recovery"
	default:
		return "continued downward pressure"
	}
}

// Outlook compares the majority sentiment of related news against the sign
// of the period performance. Matching directions give a firm label, neutral
// news a cautious one, and contradictions a mixed call.
func Outlook(inst models.Instrument, related []models.NewsRecord) string {
	dominant := models.SentimentNeutral
	if shares := SentimentDistribution(related); len(shares) > 0 {
		dominant = shares[0].Label
	}

	perfUp := inst.Performance >= 0
	switch dominant {
	case models.SentimentPositive:
		if perfUp {
			return "bullish"
		}
		return "mixed, with potential for trend reversal"
	case models.SentimentNegative:
		if !perfUp {
			return "bearish"
		}
		return "mixed, with potential for trend reversal"
	case models.SentimentNeutral:
		if perfUp {
			return "cautiously optimistic"
		}
		return "cautiously pessimistic"
	default:
		return "mixed, with potential for trend reversal"
	}
}
