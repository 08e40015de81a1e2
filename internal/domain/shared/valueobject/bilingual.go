package valueobject

import "strings"

// BilingualText holds a Chinese and an English rendering of the same name
type BilingualText struct {
	ZH string `json:"zh,omitempty"`
	EN string `json:"en,omitempty"`
}

// NewBilingualText trims both renderings
func NewBilingualText(zh, en string) BilingualText {
	return BilingualText{ZH: strings.TrimSpace(zh), EN: strings.TrimSpace(en)}
}

// IsEmpty returns true when neither rendering is present
func (b BilingualText) IsEmpty() bool {
	return b.ZH == "" && b.EN == ""
}

// Display returns the English rendering, falling back to Chinese
func (b BilingualText) Display() string {
	if b.EN != "" {
		return b.EN
	}
	return b.ZH
}
