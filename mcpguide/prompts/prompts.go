// Package prompts holds the fixed instructional text sent ahead of every
// forwarded conversation.
package prompts

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/magiconair/properties"
)

//go:embed tutor.properties
var tutorProperties string

// Preamble is the system instruction prepended to every conversation forwarded
// to the completion provider. It never reaches the browser.
var Preamble = mustBuild(tutorProperties)

// Build assembles a preamble from a properties document: tutor.intro, then
// each section named in tutor.sections as its title line followed by its body.
func Build(src string) (string, error) {
	props, err := properties.LoadString(src)
	if err != nil {
		return "", fmt.Errorf("load tutor properties: %w", err)
	}

	intro := strings.TrimSpace(props.GetString("tutor.intro", ""))
	if intro == "" {
		return "", fmt.Errorf("tutor.intro is required")
	}
	parts := []string{intro}
	for _, key := range parseSlice(props.GetString("tutor.sections", "")) {
		title := props.GetString("section."+key+".title", "")
		body := props.GetString("section."+key+".body", "")
		if title == "" || body == "" {
			return "", fmt.Errorf("section %q needs a title and a body", key)
		}
		parts = append(parts, strings.TrimSpace(title)+"\n"+strings.TrimSpace(body))
	}
	return strings.Join(parts, "\n\n"), nil
}

func mustBuild(src string) string {
	p, err := Build(src)
	if err != nil {
		panic(err)
	}
	return p
}

func parseSlice(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
