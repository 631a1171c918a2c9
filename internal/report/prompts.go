package report

import (
	"fmt"
	"strings"
)

// Prompt builders for the narrative backend. The wording is deliberate: the
// theme prompt pins the "## " heading format the section parser expects, and
// the project-aware executive prompt instructs the model not to conflate
// unrelated projects.

func plainExecutivePrompt(texts []string, a Analytics, rangeLabel string) string {
	apps := make([]string, 0, 5)
	for i, app := range a.TopApps {
		if i >= 5 {
			break
		}
		apps = append(apps, app.Name)
	}

	var b strings.Builder
	b.WriteString("Synthesize these activity summaries into a coherent executive summary.\n")
	fmt.Fprintf(&b, "Time period: %s\n", rangeLabel)
	fmt.Fprintf(&b, "Total active time: %d minutes\n", a.TotalActiveMinutes)
	fmt.Fprintf(&b, "Top applications: %s\n\n", strings.Join(apps, ", "))
	b.WriteString("Individual activity summaries:\n")
	writeBullets(&b, texts)
	b.WriteString(`
Write a 2-3 paragraph executive summary covering:
1. Main focus areas and accomplishments
2. Key projects or tasks worked on
3. Notable patterns (if any)

Be specific and use actual project names and technical terms from the summaries.`)
	return b.String()
}

func projectSectionPrompt(project string, texts []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize these activities for the %q project in 2-3 sentences.\n", project)
	b.WriteString("Focus on what was accomplished, not just what was done.\n\nActivities:\n")
	writeBullets(&b, texts)
	b.WriteString("\nBe specific and technical. This is for a developer's activity report.")
	return b.String()
}

func projectExecutivePrompt(projectLines []string, projectCount int, a Analytics, rangeLabel string) string {
	var b strings.Builder
	b.WriteString("Write a brief executive summary for a developer's activity report.\n\n")
	b.WriteString("IMPORTANT: The following projects are UNRELATED to each other. Do NOT combine them or suggest connections.\n\n")
	b.WriteString("Projects worked on:\n")
	for _, line := range projectLines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nTotal active time: %d minutes across %d distinct contexts.\n", a.TotalActiveMinutes, projectCount)
	fmt.Fprintf(&b, "Time period: %s\n\n", rangeLabel)
	b.WriteString(`Write 2-3 sentences summarizing the activity. Treat each project as independent work.
Do NOT say things like "Project A within Project B" - they are separate.
Format: List main accomplishments per project, then overall productivity note.`)
	return b.String()
}

func themePrompt(texts []string) string {
	var b strings.Builder
	b.WriteString("Group these activities into 2-4 thematic categories.\n")
	b.WriteString("For each category, provide a title and 1-sentence summary.\n\nActivities:\n")
	for i, text := range texts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, text)
	}
	b.WriteString(`
Format your response as:
## Category Name
Brief description of work in this category.

## Another Category
Brief description.`)
	return b.String()
}

func dayPrompt(texts []string) string {
	var b strings.Builder
	b.WriteString("Summarize this day's activities in 2-3 sentences:\n")
	writeBullets(&b, texts)
	return b.String()
}

func overviewPrompt(texts []string) string {
	var b strings.Builder
	b.WriteString("Write a brief overview of the week based on these activities:\n")
	writeBullets(&b, texts)
	return b.String()
}

func standupPrompt(texts []string) string {
	var b strings.Builder
	b.WriteString(`Convert these activity summaries into a brief standup update.
Format:
- What I worked on: (2-3 bullet points)
- Key accomplishments: (1-2 items)
- Currently focused on: (1 item)

Activities:
`)
	writeBullets(&b, texts)
	b.WriteString("\nKeep it concise and actionable.")
	return b.String()
}

func writeBullets(b *strings.Builder, texts []string) {
	for _, text := range texts {
		fmt.Fprintf(b, "- %s\n", text)
	}
}
