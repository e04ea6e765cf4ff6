package avatar

import (
	"strings"
	"testing"
)

func baseRequest() GenerationRequest {
	return GenerationRequest{
		Adjective:   "happy",
		Nationality: "Japanese",
		Age:         "25 year old",
		Gender:      "woman",
		Hairstyle:   "long_wavy",
		Accessory:   "round_glasses",
		Profession:  "software_engineer",
		MJVersion:   "6.0",
		Stylize:     "100",
		Quality:     "1",
		Chaos:       "0",
		AspectRatio: "1:1",
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	req := baseRequest()
	first := BuildPrompt(req, "https://example.com/ref.png", 10, "42")
	second := BuildPrompt(req, "https://example.com/ref.png", 10, "42")
	if first != second {
		t.Fatalf("prompt not deterministic:\n%s\n%s", first, second)
	}
}

func TestBuildPromptTemplate(t *testing.T) {
	prompt := BuildPrompt(baseRequest(), "", DefaultReferenceWeight, "")

	for _, fragment := range []string{
		"Apple iOS Memoji-style avatar of 25 year old Japanese woman",
		", software engineer",
		", wearing round glasses",
		", with long wavy hair",
		"The face has happy expression.",
		"--v 6.0",
		"--s 100",
		"--q 1",
		"--c 0",
		"--ar 1:1",
	} {
		if !strings.Contains(prompt, fragment) {
			t.Fatalf("prompt missing %q:\n%s", fragment, prompt)
		}
	}
	if strings.Contains(prompt, "_") {
		t.Fatalf("underscores leaked into the prompt:\n%s", prompt)
	}
}

func TestBuildPromptOmitsEmptyOptionalSegments(t *testing.T) {
	req := baseRequest()
	req.Accessory = ""
	req.Profession = ""
	req.Stylize = ""
	req.Chaos = ""

	prompt := BuildPrompt(req, "", DefaultReferenceWeight, "")
	if strings.Contains(prompt, ", wearing") {
		t.Fatalf("accessory connective present without accessory:\n%s", prompt)
	}
	if strings.Contains(prompt, "--s ") || strings.Contains(prompt, "--c ") {
		t.Fatalf("empty parameter flags emitted:\n%s", prompt)
	}
	if !strings.Contains(prompt, "--v 6.0") {
		t.Fatalf("version flag missing:\n%s", prompt)
	}
}

func TestBuildPromptRawStyle(t *testing.T) {
	req := baseRequest()
	req.Raw = true
	prompt := BuildPrompt(req, "", DefaultReferenceWeight, "")
	if !strings.Contains(prompt, "--style raw") {
		t.Fatalf("raw flag missing:\n%s", prompt)
	}
}

func TestBuildPromptSeedOnlyForLegacyVersions(t *testing.T) {
	cases := []struct {
		version string
		seed    string
		want    bool
	}{
		{"5.1", "12345", true},
		{"5.2", "12345", true},
		{"6.0", "12345", false},
		{"5.2", "", false},
		{"5.0", "12345", false},
	}
	for _, tc := range cases {
		req := baseRequest()
		req.MJVersion = tc.version
		prompt := BuildPrompt(req, "", DefaultReferenceWeight, tc.seed)
		got := strings.Contains(prompt, "--seed")
		if got != tc.want {
			t.Errorf("version %s seed %q: --seed present = %v, want %v", tc.version, tc.seed, got, tc.want)
		}
	}
}

func TestBuildPromptReferenceRequiresV6(t *testing.T) {
	req := baseRequest()
	req.MJVersion = "5.2"
	prompt := BuildPrompt(req, "https://example.com/ref.png", 10, "")
	if strings.Contains(prompt, "--cref") {
		t.Fatalf("--cref emitted below v6:\n%s", prompt)
	}

	req.MJVersion = "6.1"
	prompt = BuildPrompt(req, "https://example.com/ref.png", 10, "")
	if !strings.Contains(prompt, "--cref https://example.com/ref.png --cw 10") {
		t.Fatalf("--cref missing on v6.1:\n%s", prompt)
	}
}

func TestBuildPromptClampsReferenceWeight(t *testing.T) {
	prompt := BuildPrompt(baseRequest(), "https://example.com/ref.png", 999, "")
	if !strings.Contains(prompt, "--cw 15") {
		t.Fatalf("reference weight not clamped:\n%s", prompt)
	}
	if strings.Contains(prompt, "--cw 999") {
		t.Fatalf("unclamped weight leaked:\n%s", prompt)
	}
}
