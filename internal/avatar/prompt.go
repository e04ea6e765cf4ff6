package avatar

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultReferenceWeight applies when the form omits a character weight.
const DefaultReferenceWeight = 100

// maxReferenceWeight is the hard cap Midjourney accepts for --cw.
const maxReferenceWeight = 15

const promptTemplate = "Apple iOS Memoji-style avatar of %s %s%s%s%s%s, identical to official Apple Memoji. " +
	"Simple, clean, and cartoon-like, exactly in the Apple aesthetic. The face has %s expression. " +
	"The background is pure white. No extra details, no unnecessary rendering--just the classic iOS Memoji style."

// BuildPrompt renders the structured avatar description into the natural
// language prompt plus the Midjourney parameter suffix. Pure function: the
// same inputs always produce the same string.
func BuildPrompt(req GenerationRequest, referenceURL string, referenceWeight int, seed string) string {
	nationality := strings.TrimSpace(req.Nationality)
	if nationality != "" {
		nationality += " "
	}

	accessory := cleanToken(req.Accessory)
	if accessory != "" {
		accessory = ", wearing " + accessory
	}
	hairstyle := cleanToken(req.Hairstyle)
	if hairstyle != "" {
		hairstyle = ", with " + hairstyle + " hair"
	}
	profession := cleanToken(req.Profession)
	if profession != "" {
		profession = ", " + profession
	}

	prompt := fmt.Sprintf(promptTemplate,
		strings.TrimSpace(req.Age),
		nationality,
		strings.TrimSpace(req.Gender),
		profession,
		accessory,
		hairstyle,
		strings.TrimSpace(req.Adjective),
	)

	params := []string{
		flag("--v", req.MJVersion),
		flag("--s", req.Stylize),
		flag("--q", req.Quality),
		flag("--c", req.Chaos),
		flag("--ar", req.AspectRatio),
	}
	if req.Raw {
		params = append(params, "--style raw")
	}

	// Seed reproduction only works on the 5.1/5.2 engines.
	if (req.MJVersion == "5.1" || req.MJVersion == "5.2") && seed != "" {
		params = append(params, "--seed "+seed)
	}

	// Character reference requires the v6 engine or newer.
	if version, err := strconv.ParseFloat(strings.TrimSpace(req.MJVersion), 64); err == nil && version >= 6.0 && referenceURL != "" {
		weight := referenceWeight
		if weight > maxReferenceWeight {
			weight = maxReferenceWeight
		}
		params = append(params, fmt.Sprintf("--cref %s --cw %d", referenceURL, weight))
	}

	var suffix []string
	for _, p := range params {
		if p != "" {
			suffix = append(suffix, p)
		}
	}
	if len(suffix) == 0 {
		return prompt
	}
	return prompt + " " + strings.Join(suffix, " ")
}

func flag(name, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return name + " " + value
}

func cleanToken(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "_", " "))
}
