package models

// Template is a stored message or call-script body with {PLACEHOLDER}s.
type Template struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// EventInfo feeds the event placeholders of templates.
type EventInfo struct {
	Date    string `json:"date"`
	Hour    string `json:"hour"`
	Place   string `json:"place"`
	Address string `json:"address"`
}
