package explain

import (
	"fmt"
	"sort"
	"strings"

	"newssense/internal/models"
)

const recommendationRefusal = "I can't provide buy, sell or hold recommendations. " +
	"I can explain what is moving the instrument and what the recent news says, " +
	"so you can form your own view or consult a registered advisor."

const outlookDisclaimer = "This outlook is derived from recent news sentiment and price action only. " +
	"It is not a forecast and should not be treated as investment advice."

var timeframePhrases = map[models.Timeframe]string{
	models.TimeframeToday:       "today",
	models.TimeframeYesterday:   "yesterday",
	models.TimeframeThisWeek:    "over the past week",
	models.TimeframeThisMonth:   "over the past month",
	models.TimeframeThisQuarter: "over the past quarter",
	models.TimeframeThisYear:    "this year",
}

// ForIntent renders the explanation variant matching the parsed intent.
// Price-movement and general questions get the full detailed narrative; the
// other intents reshape the same inputs around what was actually asked.
func ForIntent(parsed models.ParsedQuery, inst models.Instrument, records []models.NewsRecord) string {
	switch parsed.Intent {
	case models.IntentPerformance:
		return performanceExplanation(parsed, inst, records)
	case models.IntentNewsImpact:
		return newsImpactExplanation(inst, records)
	case models.IntentOutlook:
		return outlookExplanation(inst, records)
	case models.IntentRecommendation:
		return recommendationExplanation(inst, records)
	case models.IntentMacro:
		return macroExplanation(inst, records)
	default:
		return Detailed(inst, records)
	}
}

func performanceExplanation(parsed models.ParsedQuery, inst models.Instrument, records []models.NewsRecord) string {
	phrase := timeframePhrases[parsed.Timeframe]
	if phrase == "" {
		phrase = "for the period"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s has returned %+.2f%% %s, with the latest session at %+.2f%%.",
		inst.Name, inst.Performance, phrase, inst.ChangePercent))
	sb.WriteString(" " + movementCommentary(inst))

	related := RelatedNews(inst, records)
	if len(related) > 0 {
		sb.WriteString("\n\n" + sentimentSection(related))
	} else {
		sb.WriteString("\n\n" + noNewsClause)
	}
	sb.WriteString("\n\n" + categoryInsights(inst))
	return sb.String()
}

func newsImpactExplanation(inst models.Instrument, records []models.NewsRecord) string {
	related := RelatedNews(inst, records)
	if len(related) == 0 {
		return fmt.Sprintf("%s %s", noNewsClause,
			fmt.Sprintf("Price action for %s (%+.2f%% for the period) is not attributable to any covered story.",
				inst.Name, inst.Performance))
	}

	sourceCounts := make(map[string]int)
	for _, rec := range related {
		sourceCounts[rec.Source]++
	}
	sources := make([]string, 0, len(sourceCounts))
	for src := range sourceCounts {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	var sourceParts []string
	for _, src := range sources {
		sourceParts = append(sourceParts, fmt.Sprintf("%s (%d)", src, sourceCounts[src]))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d recent articles about %s across %s.",
		len(related), inst.Name, strings.Join(sourceParts, ", ")))
	sb.WriteString("\n\n" + sentimentSection(related))
	sb.WriteString("\n\n" + topNewsSection(related))
	return sb.String()
}

func outlookExplanation(inst models.Instrument, records []models.NewsRecord) string {
	related := RelatedNews(inst, records)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Outlook for %s: %s.", inst.Name, Outlook(inst, related)))
	sb.WriteString(" " + movementCommentary(inst))
	if len(related) > 0 {
		sb.WriteString("\n\n" + sentimentSection(related))
	} else {
		sb.WriteString("\n\n" + noNewsClause)
	}
	sb.WriteString("\n\n" + outlookDisclaimer)
	return sb.String()
}

func recommendationExplanation(inst models.Instrument, records []models.NewsRecord) string {
	return recommendationRefusal + "\n\n" + Detailed(inst, records)
}

func macroExplanation(inst models.Instrument, records []models.NewsRecord) string {
	diff := inst.Performance - inst.ChangePercent
	var correlation string
	switch {
	case diff >= 0.5 || diff <= -0.5:
		correlation = fmt.Sprintf("%s has diverged from the broader market, suggesting instrument-specific drivers alongside macro conditions.", inst.Name)
	default:
		correlation = fmt.Sprintf("%s is moving with the broader market, suggesting macro conditions rather than instrument-specific drivers.", inst.Name)
	}

	var sb strings.Builder
	sb.WriteString(correlation)
	sb.WriteString(fmt.Sprintf(" The %s sector remains the relevant lens for macro exposure.", inst.Sector))

	related := RelatedNews(inst, records)
	if len(related) > 0 {
		sb.WriteString("\n\n" + sentimentSection(related))
	}
	return sb.String()
}
