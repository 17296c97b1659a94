package jsonutil

import (
	"strings"
	"testing"
)

func TestStripMarkdownFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "No fences",
			input: `{"a": 1}`,
			want:  `{"a": 1}`,
		},
		{
			name:  "JSON fences",
			input: "```json\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "Plain fences",
			input: "```\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "Surrounding whitespace",
			input: "  ```json\n{\"a\": 1}\n```  ",
			want:  `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkdownFences(tt.input); got != tt.want {
				t.Errorf("StripMarkdownFences() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "Bare object",
			input: `{"verdict": "keeper"}`,
			want:  `{"verdict": "keeper"}`,
		},
		{
			name:  "Object in prose",
			input: `Here is the analysis: {"verdict": "keeper"} hope that helps`,
			want:  `{"verdict": "keeper"}`,
		},
		{
			name:  "Array",
			input: `[1, 2, 3]`,
			want:  `[1, 2, 3]`,
		},
		{
			name:    "No JSON at all",
			input:   `the image is blurry`,
			wantErr: true,
		},
		{
			name:    "Unclosed object",
			input:   `{"verdict": "keeper"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseJSON(t *testing.T) {
	type naming struct {
		Filename string   `json:"filename"`
		Tags     []string `json:"tags"`
	}

	raw := "```json\n{\"filename\": \"sunset-beach\", \"tags\": [\"sunset\", \"beach\", \"golden\"]}\n```"
	got, err := ParseJSON[naming](raw)
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	if got.Filename != "sunset-beach" {
		t.Errorf("Filename = %q, want %q", got.Filename, "sunset-beach")
	}
	if len(got.Tags) != 3 {
		t.Errorf("len(Tags) = %d, want 3", len(got.Tags))
	}
}

func TestParseJSONInvalid(t *testing.T) {
	_, err := ParseJSON[map[string]any](`{"broken": `)
	if err == nil {
		t.Fatal("ParseJSON() expected error for truncated JSON")
	}
	if !strings.Contains(err.Error(), "JSON") {
		t.Errorf("error %q should mention JSON", err)
	}
}
