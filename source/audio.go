package source

// AudioTrack is an audio rendition reported by the display engine.
type AudioTrack struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Language string `json:"language"`
}
