// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/ManuGH/arteloo/internal/arte"
)

const (
	textWidth  = 78
	textIndent = 4
)

var (
	accent      = lipgloss.Color("#FA481C")
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Width(10)
	urlStyle    = lipgloss.NewStyle().Underline(true)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// paragraph wraps text to the terminal width under an indent.
func paragraph(s string) string {
	return indent.String(wordwrap.String(strings.TrimSpace(s), textWidth-textIndent), textIndent)
}

func field(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label), value)
}

func renderSummaries(w io.Writer, videos []arte.VideoSummary, total int) {
	_, _ = fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%d of %d entries", len(videos), total)))
	for i, v := range videos {
		_, _ = fmt.Fprintf(w, "\n%s %s\n", faintStyle.Render(fmt.Sprintf("%3d.", i+1)), titleStyle.Render(v.Title))

		meta := []string{v.ProgramID}
		if v.DurationLabel != "" {
			meta = append(meta, v.DurationLabel)
		}
		if v.Genre.Label != "" {
			meta = append(meta, v.Genre.Label)
		}
		_, _ = fmt.Fprintln(w, indent.String(faintStyle.Render(strings.Join(meta, " · ")), textIndent+1))

		if v.Subtitle != "" {
			_, _ = fmt.Fprintln(w, paragraph(v.Subtitle))
		}
		if v.Description != "" {
			_, _ = fmt.Fprintln(w, paragraph(truncate.StringWithTail(v.Description, 3*textWidth, "…")))
		}
	}
}

func renderMeta(w io.Writer, id arte.ID, res metaResult) {
	_, _ = fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s %s", id.Kind(), id)))

	if d := res.Detail; d != nil {
		_, _ = fmt.Fprintln(w, titleStyle.Render(d.Title))
		field(w, "subtitle", d.Subtitle)
		if d.DurationSeconds > 0 {
			field(w, "duration", fmt.Sprintf("%d min", d.DurationSeconds/60))
		}
		if d.Rights != nil && !d.Rights.End.IsZero() {
			field(w, "until", d.Rights.End.Format("2006-01-02 15:04"))
		}
		field(w, "image", d.FirstImage().OrEmpty())
		field(w, "page", d.PageURL)
		_, _ = fmt.Fprintln(w, labelStyle.Render("streams"), len(d.Streams))
		for _, s := range d.Streams {
			codes := make([]string, len(s.Versions))
			for i, v := range s.Versions {
				codes[i] = v.Code
			}
			_, _ = fmt.Fprintf(w, "%s%s %s\n", strings.Repeat(" ", textIndent), s.Protocol, faintStyle.Render(strings.Join(codes, ",")))
		}
		if d.Description != "" {
			_, _ = fmt.Fprintf(w, "\n%s\n", paragraph(d.Description))
		}
	}

	if len(res.Episodes) > 0 {
		_, _ = fmt.Fprintf(w, "\n%s\n", headerStyle.Render(fmt.Sprintf("%d episodes", len(res.Episodes))))
		for i, ep := range res.Episodes {
			title := ep.Title
			if ep.Subtitle != "" {
				title = ep.Subtitle
			}
			_, _ = fmt.Fprintf(w, "%s %s %s\n",
				faintStyle.Render(fmt.Sprintf("%3d.", i+1)),
				titleStyle.Render(title),
				faintStyle.Render(ep.ProgramID))
		}
	}
}

func renderStream(w io.Writer, id arte.ID, url string) {
	_, _ = fmt.Fprintln(w, headerStyle.Render(id.String()))
	_, _ = fmt.Fprintln(w, urlStyle.Render(url))
}

func renderLive(w io.Writer, live arte.LiveChannel) {
	_, _ = fmt.Fprintln(w, headerStyle.Render("Arte - Direct"))
	_, _ = fmt.Fprintln(w, titleStyle.Render(live.Title))
	field(w, "subtitle", live.Subtitle)
	field(w, "stream", live.StreamURL.OrElse(faintStyle.Render("none")))
	field(w, "program", live.CurrentProgramURL)
	if live.Description != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", paragraph(live.Description))
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
