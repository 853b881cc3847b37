// Package document renders the filing document for a completed intake.
package document

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/utils"
)

type Kind string

const (
	KindPoliceComplaint Kind = "police_complaint"
	KindLegalNotice     Kind = "legal_notice"
	KindGeneralPetition Kind = "general_petition"
)

const (
	ContentType = "text/plain; charset=utf-8"
	lineWidth   = 78
)

// Request carries the merged fields of a completed session.
type Request struct {
	ReferenceNumber   string
	IssueType         string
	SubCategory       string
	Action            string
	Fields            map[string]string
	SuggestedSections []string
	Authority         string
	Date              time.Time
}

type Document struct {
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"-"`
}

type Generator interface {
	Generate(ctx context.Context, req Request) (*Document, error)
}

// KindFor picks the template from the selected action, falling back to the
// issue type.
func KindFor(action, issueType string) Kind {
	a := strings.ToLower(action)
	switch {
	case strings.Contains(a, "legal notice"):
		return KindLegalNotice
	case strings.Contains(a, "fir"), strings.Contains(a, "police"), strings.Contains(a, "cyber"):
		return KindPoliceComplaint
	}
	switch issueType {
	case "police_complaint", "cyber_complaint":
		return KindPoliceComplaint
	}
	return KindGeneralPetition
}

type TemplateGenerator struct {
	templates map[Kind]*template.Template
	titles    map[Kind]string
}

func NewTemplateGenerator() (*TemplateGenerator, error) {
	g := &TemplateGenerator{
		templates: make(map[Kind]*template.Template, len(sources)),
		titles:    make(map[Kind]string, len(sources)),
	}
	for kind, src := range sources {
		t, err := template.New(string(kind)).Funcs(funcs).Option("missingkey=zero").Parse(src.body)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", kind, err)
		}
		g.templates[kind] = t
		g.titles[kind] = src.title
	}
	return g, nil
}

type view struct {
	Request
	Title string
	Facts []fact
	Dated string
}

type fact struct {
	Label string
	Value string
}

func (g *TemplateGenerator) Generate(ctx context.Context, req Request) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kind := KindFor(req.Action, req.IssueType)
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	v := view{
		Request: req,
		Title:   g.titles[kind],
		Facts:   facts(req.Fields),
		Dated:   req.Date.Format("02 January 2006"),
	}

	var buf bytes.Buffer
	if err := g.templates[kind].Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("render %s: %w", kind, err)
	}

	name := string(kind)
	if req.ReferenceNumber != "" {
		name = req.ReferenceNumber + "_" + name
	}
	return &Document{
		Kind:        kind,
		Title:       g.titles[kind],
		FileName:    name + ".txt",
		ContentType: ContentType,
		Body:        buf.Bytes(),
	}, nil
}

// facts lists every field except the narrative, in a stable order.
func facts(fields map[string]string) []fact {
	names := make([]string, 0, len(fields))
	for k := range fields {
		if k == intake.FieldDescription {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)

	out := make([]fact, 0, len(names))
	for _, k := range names {
		out = append(out, fact{Label: label(k), Value: display(fields[k])})
	}
	return out
}

func display(v string) string {
	if v == intake.DeniedSentinel {
		return "Not known"
	}
	return v
}

func label(field string) string {
	words := strings.Split(field, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

var funcs = template.FuncMap{
	// field returns the display value of name or the placeholder when absent.
	"field": func(fields map[string]string, name, placeholder string) string {
		if v, ok := fields[name]; ok && v != "" {
			return display(v)
		}
		return placeholder
	},
	"known": func(fields map[string]string, name string) bool {
		v := fields[name]
		return v != "" && v != intake.DeniedSentinel
	},
	"wrap": func(text string) string {
		return strings.Join(utils.WrapText(text, lineWidth), "\n")
	},
	"upper": strings.ToUpper,
	"join":  strings.Join,
}
