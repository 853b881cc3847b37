package intake

import "context"

// OracleRequest is the conversation state handed to an extraction oracle.
type OracleRequest struct {
	// Narrative is the merged history of distinct turns.
	Narrative string
	// Turns holds the same distinct turn texts in submission order.
	Turns []string
	// Latest is the text of the turn being processed.
	Latest string
	// Asked is the field the previous prompt asked for, if any. Oracles may
	// bind a bare answer such as "Rahul Kumar" to it.
	Asked string
	// Known is the current entity snapshot, denied fields included.
	Known map[string]string
	// Domain is the currently detected domain, empty on the first turn.
	Domain   string
	Language string
}

// Extraction is the oracle's structured reading of the conversation.
type Extraction struct {
	Fields            map[string]Field `json:"fields"`
	Intent            string           `json:"intent"`
	Domain            string           `json:"domain"`
	Confidence        float64          `json:"confidence"`
	SuggestedSections []string         `json:"suggested_sections,omitempty"`
}

// Oracle turns conversation text into entities. Implementations must be safe
// for concurrent use and must honour ctx cancellation.
type Oracle interface {
	Extract(ctx context.Context, req OracleRequest) (*Extraction, error)
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(ctx context.Context, req OracleRequest) (*Extraction, error)

func (f OracleFunc) Extract(ctx context.Context, req OracleRequest) (*Extraction, error) {
	return f(ctx, req)
}
