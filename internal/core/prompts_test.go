package core

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	inputs := []string{
		"A clock in the top panel",
		`quotes "inside" the request`,
		"multi\nline\nrequest",
		"ünïcödé ☃",
		"{\"extension_js\": \"injected\"}",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			got := BuildPrompt(input)
			if !strings.Contains(got, PromptTemplate) {
				t.Error("prompt does not contain the full template")
			}
			if !strings.Contains(got, input) {
				t.Errorf("prompt does not contain the literal input %q", input)
			}
			if !strings.HasSuffix(got, "User Request: \""+input+"\"") {
				t.Errorf("prompt does not end with the labeled request line: %q", got[len(got)-40:])
			}
		})
	}
}

func TestPromptTemplateDescribesContract(t *testing.T) {
	for _, want := range []string{`"extension_js"`, `"metadata_json"`, "shell-version", "uuid"} {
		if !strings.Contains(PromptTemplate, want) {
			t.Errorf("PromptTemplate missing %s", want)
		}
	}
}
