package models

// GeneratedScript is one complete short-form script produced by the AI
type GeneratedScript struct {
	Content    string            `json:"content"`
	Components *ScriptComponents `json:"components,omitempty"`
	WordCount  int               `json:"word_count"`
}

// ScriptOptions pairs the two independently generated script variants
type ScriptOptions struct {
	OptionA *GeneratedScript `json:"option_a"`
	OptionB *GeneratedScript `json:"option_b"`
}

// Hook is a single generated hook variant
type Hook struct {
	Text     string `json:"text"`
	Template string `json:"template,omitempty"`
}

// Script length presets accepted by the generation endpoint
const (
	ScriptLength20 = "20"
	ScriptLength60 = "60"
	ScriptLength90 = "90"
)
