package avatar

import (
	"fmt"
	"strings"
)

// GenerationRequest mirrors the JSON payload submitted by the avatar form.
type GenerationRequest struct {
	Adjective   string `json:"adjective"`
	Nationality string `json:"nationality"`
	Age         string `json:"age"`
	Gender      string `json:"gender"`
	Hairstyle   string `json:"hairstyle"`

	Accessory       string `json:"accessory,omitempty"`
	Profession      string `json:"profession,omitempty"`
	ReferenceURL    string `json:"referenceUrl,omitempty"`
	ReferenceWeight int    `json:"referenceWeight,omitempty"`
	Seed            string `json:"seed,omitempty"`
	MJVersion       string `json:"mjVersion,omitempty"`
	Stylize         string `json:"stylize,omitempty"`
	Quality         string `json:"quality,omitempty"`
	Chaos           string `json:"chaos,omitempty"`
	AspectRatio     string `json:"aspectRatio,omitempty"`
	Raw             bool   `json:"raw,omitempty"`
}

// requiredFields is checked in order; validation reports the first gap.
var requiredFields = []string{"adjective", "nationality", "age", "gender", "hairstyle"}

// Validate ensures every required attribute is present.
func (r GenerationRequest) Validate() error {
	values := map[string]string{
		"adjective":   r.Adjective,
		"nationality": r.Nationality,
		"age":         r.Age,
		"gender":      r.Gender,
		"hairstyle":   r.Hairstyle,
	}
	for _, field := range requiredFields {
		if strings.TrimSpace(values[field]) == "" {
			return fmt.Errorf("missing required field: %s", field)
		}
	}
	return nil
}
