// Package threads turns saved LinkedIn messenger exports into a Markdown
// digest for triage.
package threads

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// ConversationPrefix marks a messenger conversation URN.
const ConversationPrefix = "urn:li:msg_conversation:"

type text struct {
	Text string `json:"text"`
}

type participant struct {
	ParticipantType struct {
		Organization *struct {
			Name    text   `json:"name"`
			PageURL string `json:"pageUrl"`
		} `json:"organization"`
		Member *struct {
			FirstName  text   `json:"firstName"`
			LastName   text   `json:"lastName"`
			Headline   text   `json:"headline"`
			ProfileURL string `json:"profileUrl"`
		} `json:"member"`
	} `json:"participantType"`
	EntityURN  string `json:"entityUrn"`
	BackendURN string `json:"backendUrn"`
}

func (p *participant) empty() bool {
	return p == nil || (p.ParticipantType.Organization == nil && p.ParticipantType.Member == nil &&
		p.EntityURN == "" && p.BackendURN == "")
}

// message is one element of a messenger sync response.
type message struct {
	Sender       *participant `json:"sender"`
	Actor        *participant `json:"actor"`
	Body         text         `json:"body"`
	DeliveredAt  float64      `json:"deliveredAt"` // unix millis
	Conversation struct {
		EntityURN string `json:"entityUrn"`
	} `json:"conversation"`
}

type threadFile struct {
	Data struct {
		Sync struct {
			Elements []message `json:"elements"`
		} `json:"messengerMessagesBySyncToken"`
	} `json:"data"`
}

// who resolves the display name and profile URL of a message's author:
// organization name, then member full name, then member headline, then the
// sender URN.
func (m message) who() (name, url string) {
	p := m.Sender
	if p.empty() {
		p = m.Actor
	}
	if p.empty() {
		return "Unknown", ""
	}
	if org := p.ParticipantType.Organization; org != nil && org.Name.Text != "" {
		return org.Name.Text, org.PageURL
	}
	if mem := p.ParticipantType.Member; mem != nil {
		if full := strings.TrimSpace(mem.FirstName.Text + " " + mem.LastName.Text); full != "" {
			return full, mem.ProfileURL
		}
		if mem.Headline.Text != "" {
			return mem.Headline.Text, mem.ProfileURL
		}
	}
	if p.EntityURN != "" {
		return p.EntityURN, ""
	}
	if p.BackendURN != "" {
		return p.BackendURN, ""
	}
	return "Unknown", ""
}

// Participant is a thread member with an optional profile URL.
type Participant struct {
	Name string
	URL  string
}

// Entry is one transcript line.
type Entry struct {
	At     string // empty when the message has no timestamp
	Sender string
	Text   string
}

// Thread is a parsed conversation, messages in delivery order.
type Thread struct {
	SourceFile      string
	ConversationURN string
	MessageCount    int
	LastMessageAt   string
	Participants    []Participant
	Transcript      []Entry
}

// Parser converts exports into threads. Timestamps are rendered in Location.
type Parser struct {
	Location *time.Location
}

func (p Parser) stamp(millis float64) string {
	if millis <= 0 {
		return ""
	}
	loc := p.Location
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(int64(millis)).In(loc).Format("2006-01-02 15:04")
}

// ParseFile reads one thread export.
func (p Parser) ParseFile(path string) (Thread, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Thread{}, fmt.Errorf("read thread: %w", err)
	}
	var f threadFile
	if err := json.Unmarshal(data, &f); err != nil {
		return Thread{}, fmt.Errorf("parse thread %s: %w", path, err)
	}

	elements := f.Data.Sync.Elements
	t := Thread{SourceFile: path, MessageCount: len(elements)}
	if len(elements) == 0 {
		return t, nil
	}
	t.ConversationURN = elements[0].Conversation.EntityURN

	sorted := append([]message(nil), elements...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].DeliveredAt < sorted[j].DeliveredAt })

	urls := make(map[string]string)
	var order []string
	for _, m := range sorted {
		name, url := m.who()
		if _, ok := urls[name]; !ok {
			order = append(order, name)
			urls[name] = ""
		}
		if url != "" && urls[name] == "" {
			urls[name] = url
		}

		body := strings.Join(strings.Fields(m.Body.Text), " ")
		if body == "" {
			continue
		}
		t.Transcript = append(t.Transcript, Entry{At: p.stamp(m.DeliveredAt), Sender: name, Text: body})
	}
	for _, name := range order {
		t.Participants = append(t.Participants, Participant{Name: name, URL: urls[name]})
	}
	t.LastMessageAt = p.stamp(sorted[len(sorted)-1].DeliveredAt)
	return t, nil
}

// ParseDir parses every *.json file in dir, in name order. When allowed is not
// nil, threads whose conversation URN is not in it are dropped.
func (p Parser) ParseDir(dir string, allowed mapset.Set[string]) ([]Thread, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	sort.Strings(files)

	var out []Thread
	for _, path := range files {
		t, err := p.ParseFile(path)
		if err != nil {
			return nil, err
		}
		if allowed != nil && (t.ConversationURN == "" || !allowed.Contains(t.ConversationURN)) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// InboxURNs collects every conversation URN found anywhere in an inbox
// listing export.
func InboxURNs(path string) (mapset.Set[string], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inbox list: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse inbox list %s: %w", path, err)
	}

	urns := mapset.NewThreadUnsafeSet[string]()
	var walk func(any)
	walk = func(v any) {
		switch t := v.(type) {
		case map[string]any:
			for _, child := range t {
				walk(child)
			}
		case []any:
			for _, child := range t {
				walk(child)
			}
		case string:
			if strings.HasPrefix(t, ConversationPrefix) {
				urns.Add(t)
			}
		}
	}
	walk(v)
	return urns, nil
}

// LatestInbox returns the most recently modified linkedin_unread_inbox_*.json
// in dir, or "" when there is none.
func LatestInbox(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "linkedin_unread_inbox_*.json"))
	if err != nil {
		return "", fmt.Errorf("list inbox exports: %w", err)
	}
	var (
		latest string
		newest time.Time
	)
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if latest == "" || !info.ModTime().Before(newest) {
			latest, newest = path, info.ModTime()
		}
	}
	return latest, nil
}
