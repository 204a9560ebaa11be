package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as a Markdown report.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format implements the Formatter interface.
func (f *MarkdownFormatter) Format(s *Summary) string {
	var sb strings.Builder

	sb.WriteString("# Extraction Summary\n\n")
	fmt.Fprintf(&sb, "- **Run ID**: %s\n", s.RunID)
	fmt.Fprintf(&sb, "- **Generated**: %s\n", s.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "- **Input**: `%s`\n", s.InputDir)
	fmt.Fprintf(&sb, "- **Output**: `%s`\n", s.OutputDir)
	sb.WriteString("\n")

	sb.WriteString("## Settings\n\n")
	sb.WriteString("| Setting | Value |\n")
	sb.WriteString("|---------|-------|\n")
	fmt.Fprintf(&sb, "| Interval | %gs |\n", s.Settings.IntervalSeconds)
	fmt.Fprintf(&sb, "| Extensions | %s |\n", strings.Join(s.Settings.Extensions, ", "))
	fmt.Fprintf(&sb, "| Dry Run | %s |\n", yesNo(s.Settings.DryRun))
	sb.WriteString("\n")

	sb.WriteString("## Totals\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	fmt.Fprintf(&sb, "| Videos | %d |\n", s.Totals.Videos)
	fmt.Fprintf(&sb, "| Succeeded | %d |\n", s.Totals.Succeeded)
	fmt.Fprintf(&sb, "| Failed | %d |\n", s.Totals.Failed)
	fmt.Fprintf(&sb, "| Frames Written | %d |\n", s.Totals.FramesWritten)
	fmt.Fprintf(&sb, "| Duration | %s |\n", formatMs(s.Totals.DurationMs))
	sb.WriteString("\n")

	if len(s.Videos) == 0 {
		sb.WriteString("No video files were found.\n")
		return sb.String()
	}

	sb.WriteString("## Videos\n\n")
	sb.WriteString("| Video | Codec | Size | FPS | Frames Read | Frames Written | Status |\n")
	sb.WriteString("|-------|-------|------|-----|-------------|----------------|--------|\n")
	for _, v := range s.Videos {
		status := "ok"
		if !v.Succeeded() {
			status = "failed"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %d | %d | %s |\n",
			v.Name, orDash(v.Codec), size(v.Width, v.Height), fps(v.FrameRate),
			v.FramesRead, v.FramesWritten, status)
	}

	var failed []VideoSummary
	for _, v := range s.Videos {
		if !v.Succeeded() {
			failed = append(failed, v)
		}
	}
	if len(failed) > 0 {
		sb.WriteString("\n## Errors\n\n")
		for _, v := range failed {
			fmt.Fprintf(&sb, "- **%s**: %s\n", v.Name, escapeMarkdown(v.Error))
		}
	}

	return sb.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func size(w, h int) string {
	if w == 0 || h == 0 {
		return "-"
	}
	return fmt.Sprintf("%dx%d", w, h)
}

func fps(rate float64) string {
	if rate <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", rate)
}

func formatMs(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%d ms", ms)
	}
	return fmt.Sprintf("%.2f s", float64(ms)/1000)
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
