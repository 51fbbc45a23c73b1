package threads

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"
)

// GeneratedAtLayout formats Digest.GeneratedAt.
const GeneratedAtLayout = "2006-01-02 15:04"

// OutputName is the default digest file name for a run started at t.
func OutputName(t time.Time) string {
	return "unread_threads_" + t.Format("2006-01-02_150405") + ".md"
}

// Digest is the rendered document.
type Digest struct {
	GeneratedAt string
	SourceDir   string
	InboxList   string // empty when every thread is included
	Threads     []Thread
}

var digestTemplate = template.Must(template.New("digest").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"names": func(ps []Participant) string {
		names := make([]string, len(ps))
		for i, p := range ps {
			names[i] = p.Name
		}
		return strings.Join(names, ", ")
	},
}).Parse(`---
generated_at: "{{.GeneratedAt}}"
source_dir: "{{.SourceDir}}"
{{- if .InboxList}}
inbox_list: "{{.InboxList}}"
filter_mode: "inbox_list"
{{- end}}
thread_count: {{len .Threads}}
---

# LinkedIn Unread Threads

{{range $i, $t := .Threads -}}
## Thread {{inc $i}}
- source_file: {{$t.SourceFile}}
{{- if $t.ConversationURN}}
- conversation_urn: {{$t.ConversationURN}}
{{- end}}
{{- if $t.Participants}}
- participants: {{names $t.Participants}}
{{- end}}
{{- if $t.MessageCount}}
- message_count: {{$t.MessageCount}}
{{- end}}
{{- if $t.LastMessageAt}}
- last_message_at: {{$t.LastMessageAt}}
{{- end}}

{{if $t.Participants -}}
### Participants
{{range $t.Participants -}}
- {{.Name}}{{if .URL}}: {{.URL}}{{end}}
{{end}}
{{end -}}
### Transcript
{{range $t.Transcript -}}
- {{if .At}}[{{.At}}] {{end}}{{.Sender}}: {{.Text}}
{{end}}
---

{{end -}}
`))

// Render writes d as Markdown with a front-matter header.
func Render(w io.Writer, d Digest) error {
	if err := digestTemplate.Execute(w, d); err != nil {
		return fmt.Errorf("render digest: %w", err)
	}
	return nil
}
