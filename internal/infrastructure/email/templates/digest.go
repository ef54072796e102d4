package templates

import (
	"fmt"
	"html"
	"strings"
)

// DigestRow is one demand signal rendered in the digest table.
type DigestRow struct {
	Query          string
	PeriodSearches int
	GrowthPct      float64
	ZeroResults    int
	Reason         string
}

type DigestEmailProps struct {
	WindowDays int
	Rows       []DigestRow
}

// GetDigestEmailContent renders the demand digest body. Queries come from
// user input, so everything is HTML-escaped.
func GetDigestEmailContent(props DigestEmailProps) string {
	var b strings.Builder

	b.WriteString(GetParagraph(fmt.Sprintf(
		"Search demand signals for the last %d days, strongest first.", props.WindowDays)))

	if len(props.Rows) == 0 {
		b.WriteString(GetParagraph("No surging queries crossed the detection thresholds this period."))
		return b.String()
	}

	b.WriteString(`<table role="presentation" border="0" cellpadding="8" cellspacing="0" width="100%" style="border-collapse: collapse; font-size: 14px;">
      <tr style="background: #f4f5f6; text-align: left;">
        <th>Query</th><th>Searches</th><th>Growth</th><th>Zero results</th>
      </tr>`)
	for _, row := range props.Rows {
		b.WriteString(fmt.Sprintf(`
      <tr style="border-bottom: 1px solid #e5e7eb;">
        <td><strong>%s</strong><br><span style="color: #6b7280; font-size: 12px;">%s</span></td>
        <td>%d</td>
        <td>%.0f%%</td>
        <td>%d</td>
      </tr>`,
			html.EscapeString(row.Query),
			html.EscapeString(row.Reason),
			row.PeriodSearches,
			row.GrowthPct,
			row.ZeroResults,
		))
	}
	b.WriteString("\n    </table>")
	return b.String()
}
