package datasets

import "github.com/eser/distill/pkg/pipeline/business/batches"

// Example is one supervised fine-tuning example: role-tagged message turns in
// system, user, assistant order. The assistant content is the structured
// response as a JSON string.
type Example struct {
	Messages []batches.Message `json:"messages"`
}

// DropStats counts batch result records excluded from the fine-tuning
// dataset. Unmatched or errored records are dropped and counted, never
// silently coerced into examples.
type DropStats struct {
	// MissingResult counts requests with no corresponding output record.
	MissingResult int
	// UnmatchedResult counts output records whose request id resolves to no
	// originating prompt.
	UnmatchedResult int
	// Errored counts output records carrying a request-level error or a
	// non-200 status.
	Errored int
	// Unparseable counts output records whose assistant content is not valid
	// JSON.
	Unparseable int
}

// Total returns the overall number of dropped records.
func (d DropStats) Total() int {
	return d.MissingResult + d.UnmatchedResult + d.Errored + d.Unparseable
}
