package models

// Setting types.
const (
	SettingText     = "text"
	SettingTextarea = "textarea"
	SettingImage    = "image"
	SettingSelect   = "select"
	SettingBoolean  = "boolean"
)

// Setting is a site-wide key/value option.
type Setting struct {
	ID    int     `json:"id"`
	Key   string  `json:"key"`
	Value *string `json:"value"`
	Type  string  `json:"type"`
	Group string  `json:"group"`
	Label string  `json:"label"`
}
