package port

// Synthesizer produces grounded natural-language answers from retrieved
// context via a language model.
type Synthesizer interface {
	// GenerateResponse builds a prompt from the context passages (nearest
	// first) and the question, and returns the model's answer. A service
	// failure is an error return, never an error-encoded answer string.
	GenerateResponse(question string, contexts []string) (string, error)

	// EvaluateEquivalence asks the model whether two answers to the same
	// question convey the same information. Any failure yields false.
	// Best-effort oracle only; depends on model sampling.
	EvaluateEquivalence(question, expected, actual string) bool

	// ModelName returns the name of the language model.
	ModelName() string
}
