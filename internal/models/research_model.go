package models

// ResearchResult holds market and trend insights for a niche. Produced once
// per planning run (or pulled from cache) and consumed by the downstream
// stages; never persisted by the pipeline itself.
type ResearchResult struct {
	Niche        string   `json:"niche"`
	Summary      string   `json:"summary"`
	Hooks        []string `json:"hooks"`
	TrendingTags []string `json:"trending_tags"`
}

// SlotComposition is the structured visual composition generated for one
// slot, plus the image prompt derived from it.
type SlotComposition struct {
	ShotSetup        string `json:"shot_setup"`
	SubjectDirection string `json:"subject_direction"`
	SettingMood      string `json:"setting_mood"`
	Styling          string `json:"styling"`
	EmotionalTone    string `json:"emotional_tone"`
	Prompt           string `json:"prompt"`
}
