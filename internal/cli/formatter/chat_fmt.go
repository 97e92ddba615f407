package formatter

import (
	"strings"

	"github.com/alexisferrand/cockpit/internal/chatbot"
)

// FormatChatResult renders a chatbot answer: the text first, then any
// tables with their own section headers.
func FormatChatResult(res *chatbot.Result) string {
	var b strings.Builder

	b.WriteString(res.Text)
	if !strings.HasSuffix(res.Text, "\n") {
		b.WriteString("\n")
	}

	for _, tbl := range res.Tables {
		b.WriteString("\n")
		if tbl.Title != "" {
			b.WriteString(Header(tbl.Title))
			b.WriteString("\n")
		}
		b.WriteString(RenderTable(tbl.Headers, tbl.Rows))
	}

	return b.String()
}
