// Package prompts builds the system and user instructions sent to the model.
// Everything here is pure: same input, same strings.
package prompts

import (
	"fmt"
	"regexp"
	"strings"
)

const QualificationSystem = `
You are an SDR assistant. Score B2B leads from 0-100 on quality and return a short rationale and up to 5 tags.
Output strictly as JSON with keys: score (int), rationale (str), tags (list[str]).
Consider ICP fit, buying signals, seniority, company size, and relevance to our product.
`

const QualificationUser = `
Lead:
- Name: {name}
- Title: {title}
- Company: {company}
- Website: {website}
- LinkedIn: {linkedin}
- Notes: {notes}
Provide a JSON only response.
`

const OutreachSystem = `
You write short, high-converting first-touch messages. Keep it under 120 words, personalize with details,
propose a clear next step, and vary tone by channel.
Output strictly as JSON with keys: subject (str), message (str).
`

const OutreachUser = `
Lead context:
- Name: {name}
- Title: {title}
- Company: {company}
- Tags: {tags}
- Rationale: {rationale}
Channel: {channel} (one of: email, linkedin, twitter). Tone: {tone}.
Value prop: {value_prop}
Provide a JSON only response.
`

// Channels lists the outreach channels the outreach template knows about.
var Channels = []string{"email", "linkedin", "twitter"}

// Tones lists the tones offered to operators. Tone is free-form for the model.
var Tones = []string{"friendly", "professional", "concise"}

var placeholder = regexp.MustCompile(`\{([a-z_]+)\}`)

// Fill replaces every {key} in template with values[key]. A placeholder with no
// value is a bug in the caller and panics.
func Fill(template string, values map[string]string) string {
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		key := m[1 : len(m)-1]
		v, ok := values[key]
		if !ok {
			panic(fmt.Sprintf("prompts: no value for placeholder %q", key))
		}
		return v
	})
}

// LeadFields is the subset of a lead the templates read. Absent values are "".
type LeadFields struct {
	Name     string
	Title    string
	Company  string
	Website  string
	LinkedIn string
	Notes    string
}

// PriorQualification carries what the last qualification said about the lead.
// The zero value means there was none, or it could not be decoded.
type PriorQualification struct {
	Tags      []string
	Rationale string
}

type OutreachParams struct {
	Channel   string
	Tone      string
	ValueProp string
}

func Qualification(lead LeadFields) (system, user string) {
	user = Fill(QualificationUser, map[string]string{
		"name":     lead.Name,
		"title":    lead.Title,
		"company":  lead.Company,
		"website":  lead.Website,
		"linkedin": lead.LinkedIn,
		"notes":    lead.Notes,
	})
	return QualificationSystem, user
}

func Outreach(lead LeadFields, prior PriorQualification, params OutreachParams) (system, user string) {
	user = Fill(OutreachUser, map[string]string{
		"name":       lead.Name,
		"title":      lead.Title,
		"company":    lead.Company,
		"tags":       strings.Join(prior.Tags, ", "),
		"rationale":  prior.Rationale,
		"channel":    params.Channel,
		"tone":       params.Tone,
		"value_prop": params.ValueProp,
	})
	return OutreachSystem, user
}
