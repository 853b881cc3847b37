// Package llmoracle extracts entities by prompting a language model for a
// JSON document, validating it against a schema and mapping it onto the
// intake field set.
package llmoracle

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/intake"
	"github.com/Murugavl/AI-Powered-Legal-Issue-classification/pkg/llm"
)

var ErrMalformed = errors.New("model output is not a valid extraction")

const responseSchema = `{
  "type": "object",
  "required": ["fields"],
  "properties": {
    "domain": {"type": "string"},
    "intent": {"type": "string"},
    "confidence": {"type": "number", "minimum": 0, "maximum": 1},
    "suggested_sections": {"type": "array", "items": {"type": "string"}},
    "fields": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "value": {"type": "string"},
          "denied": {"type": "boolean"},
          "explicit": {"type": "boolean"}
        }
      }
    }
  }
}`

type modelField struct {
	Value    string `json:"value"`
	Denied   bool   `json:"denied"`
	Explicit bool   `json:"explicit"`
}

type modelOutput struct {
	Domain            string                `json:"domain"`
	Intent            string                `json:"intent"`
	Confidence        float64               `json:"confidence"`
	SuggestedSections []string              `json:"suggested_sections"`
	Fields            map[string]modelField `json:"fields"`
}

type Oracle struct {
	provider llm.LLMProvider
	domains  []string
	fields   map[string]bool
	schema   *gojsonschema.Schema
}

// New builds an oracle over provider. domains are the profile keys the
// model may choose from.
func New(provider llm.LLMProvider, domains []string) (*Oracle, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(responseSchema))
	if err != nil {
		return nil, fmt.Errorf("compile response schema: %w", err)
	}
	fields := map[string]bool{}
	for _, f := range intake.DefaultPriority {
		fields[f] = true
	}
	fields[intake.FieldRelationship] = true
	return &Oracle{
		provider: provider,
		domains:  append([]string(nil), domains...),
		fields:   fields,
		schema:   schema,
	}, nil
}

func (o *Oracle) Name() string {
	return "llm"
}

func (o *Oracle) Extract(ctx context.Context, req intake.OracleRequest) (*intake.Extraction, error) {
	system, user, err := o.prompt(req)
	if err != nil {
		return nil, err
	}

	content, err := o.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: user},
	}, llm.WithTemperature(0.1), llm.WithJSON())
	if err != nil {
		return nil, fmt.Errorf("llm extraction: %w", err)
	}

	out, err := o.decode(content)
	if err != nil {
		return nil, err
	}
	return o.toExtraction(out, req), nil
}

func (o *Oracle) decode(content string) (*modelOutput, error) {
	doc := jsonObject(content)
	if doc == "" {
		return nil, fmt.Errorf("%w: no JSON object in %q", ErrMalformed, truncate(content, 120))
	}

	result, err := o.schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrMalformed, strings.Join(errs, "; "))
	}

	var out modelOutput
	if err := sonic.UnmarshalString(doc, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &out, nil
}

func (o *Oracle) toExtraction(out *modelOutput, req intake.OracleRequest) *intake.Extraction {
	fields := make(map[string]intake.Field, len(out.Fields)+1)
	for name, f := range out.Fields {
		name = strings.ToLower(strings.TrimSpace(name))
		if !o.fields[name] || name == intake.FieldDescription {
			continue
		}
		value := strings.TrimSpace(f.Value)
		if strings.EqualFold(value, intake.DeniedSentinel) {
			value, f.Denied = "", true
		}
		if value == "" && !f.Denied {
			continue
		}
		fields[name] = intake.Field{Value: value, Denied: f.Denied, Explicit: f.Explicit, Confidence: out.Confidence}
	}

	// The description is always the user's own words.
	narrative := req.Narrative
	if narrative == "" {
		narrative = intake.JoinSentences(req.Turns)
	}
	fields[intake.FieldDescription] = intake.Field{Value: narrative}

	domain := ""
	for _, d := range o.domains {
		if strings.EqualFold(d, out.Domain) {
			domain = d
			break
		}
	}

	confidence := out.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return &intake.Extraction{
		Fields:            fields,
		Intent:            strings.TrimSpace(out.Intent),
		Domain:            domain,
		Confidence:        confidence,
		SuggestedSections: out.SuggestedSections,
	}
}

func (o *Oracle) prompt(req intake.OracleRequest) (string, string, error) {
	fieldNames := make([]string, 0, len(o.fields))
	for f := range o.fields {
		fieldNames = append(fieldNames, f)
	}
	sort.Strings(fieldNames)

	known, err := sonic.MarshalString(req.Known)
	if err != nil {
		return "", "", fmt.Errorf("encode known entities: %w", err)
	}

	system := fmt.Sprintf(systemPrompt,
		strings.Join(o.domains, ", "),
		strings.Join(fieldNames, ", "),
		intake.DeniedSentinel,
	)

	var b strings.Builder
	fmt.Fprintf(&b, "Conversation so far:\n%s\n\n", req.Narrative)
	fmt.Fprintf(&b, "Latest message:\n%s\n\n", req.Latest)
	if req.Asked != "" {
		fmt.Fprintf(&b, "The assistant last asked about: %s\n\n", req.Asked)
	}
	if req.Domain != "" {
		fmt.Fprintf(&b, "Current domain: %s\n\n", req.Domain)
	}
	if req.Language != "" {
		fmt.Fprintf(&b, "The user speaks: %s. Return values in English.\n\n", req.Language)
	}
	fmt.Fprintf(&b, "Known facts: %s\n", known)
	return system, b.String(), nil
}

// jsonObject returns the outermost {...} in s, tolerating code fences and
// chatter around it.
func jsonObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
