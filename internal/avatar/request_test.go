package avatar

import "testing"

func validRequest() GenerationRequest {
	return GenerationRequest{
		Adjective:   "calm",
		Nationality: "Brazilian",
		Age:         "40 year old",
		Gender:      "man",
		Hairstyle:   "curly",
	}
}

func TestValidateAcceptsCompleteRequest(t *testing.T) {
	if err := validRequest().Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestValidateNamesFirstMissingField(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*GenerationRequest)
		want   string
	}{
		{"adjective", func(r *GenerationRequest) { r.Adjective = "" }, "missing required field: adjective"},
		{"nationality", func(r *GenerationRequest) { r.Nationality = "" }, "missing required field: nationality"},
		{"age", func(r *GenerationRequest) { r.Age = " " }, "missing required field: age"},
		{"gender", func(r *GenerationRequest) { r.Gender = "" }, "missing required field: gender"},
		{"hairstyle", func(r *GenerationRequest) { r.Hairstyle = "" }, "missing required field: hairstyle"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			err := req.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if err.Error() != tc.want {
				t.Fatalf("error = %q, want %q", err.Error(), tc.want)
			}
		})
	}
}

func TestValidateReportsFieldsInFixedOrder(t *testing.T) {
	err := GenerationRequest{}.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if err.Error() != "missing required field: adjective" {
		t.Fatalf("error = %q, want adjective reported first", err.Error())
	}
}
