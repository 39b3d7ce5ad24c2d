package model

// SpeechRequest is the request body for POST /api/ai
type SpeechRequest struct {
	Text string `json:"text"`
}

// SpeechResponse carries the synthesized audio as a data URL
type SpeechResponse struct {
	URL string `json:"url"`
}
