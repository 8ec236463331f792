package evaluation

// Model labels used to tag evaluation requests and name result files.
const (
	LabelFinetuned = "finetuned"
	LabelBase      = "base"
	LabelLarge     = "large"
)

// Similarity pair labels reported by the harness.
const (
	PairFinetunedVsBase  = "finetuned_vs_base"
	PairFinetunedVsLarge = "finetuned_vs_large"
	PairBaseVsLarge      = "base_vs_large"
)

// ModelSet names the three model variants under comparison: the fine-tuned
// student, its untouched base, and the teacher used to generate labels.
type ModelSet struct {
	Finetuned string
	Base      string
	Large     string
}

// ByLabel resolves a model label to its model identifier.
func (m ModelSet) ByLabel(label string) string {
	switch label {
	case LabelFinetuned:
		return m.Finetuned
	case LabelBase:
		return m.Base
	case LabelLarge:
		return m.Large
	default:
		return ""
	}
}

// Report is the evaluation harness output: where each model's raw results
// were written, and the mean output similarity per model pair.
type Report struct {
	ResultPaths  map[string]string  `json:"result_paths"`
	Similarities map[string]float64 `json:"similarities"`
}
