package llm

import (
	"testing"
)

func FuzzCleanContent(f *testing.F) {
	// Seed with representative inputs
	f.Add("```json\n{\"key\": \"value\"}\n```")
	f.Add("```\nplain content\n```")
	f.Add("")
	f.Add("no fences here")
	f.Add("```")

	f.Fuzz(func(t *testing.T, input string) {
		// Should never panic
		cleanContent(input)
	})
}

func FuzzApiErrorMessage(f *testing.F) {
	f.Add(`{"error":{"message":"bad key"}}`)
	f.Add(`{"error":"plain"}`)
	f.Add("")
	f.Add("not json at all")

	f.Fuzz(func(t *testing.T, input string) {
		// Should never panic
		apiErrorMessage([]byte(input))
	})
}
