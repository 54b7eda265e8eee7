// Package classify assigns coarse topic tags to a piece of text using a
// fixed keyword table. It exists to keep model routing a pure, testable
// function, decoupled from the query-dispatch path.
package classify

import (
	"strings"
)

// Tag is a coarse topic of a prompt.
type Tag string

const (
	TagCode     Tag = "code"
	TagMath     Tag = "math"
	TagCreative Tag = "creative"
	TagGeneral  Tag = "general"
)

// tagOrder fixes the iteration order so Classify is deterministic.
var tagOrder = []Tag{TagCode, TagMath, TagCreative}

var keywords = map[Tag][]string{
	TagCode: {
		"code", "function", "python", "bug", "debug", "compile",
		"json", "program", "script", "error", "refactor",
	},
	TagMath: {
		"calculate", "equation", "math", "integral", "derivative",
		"prove", "theorem", "sum of",
	},
	TagCreative: {
		"story", "poem", "haiku", "song", "creative", "imagine",
	},
}

// Classify returns the tags matching text, in a fixed order and without
// duplicates. Text matching no keyword is tagged general, so every input
// maps to at least one tag.
func Classify(text string) []Tag {
	lower := strings.ToLower(text)

	var tags []Tag
	for _, tag := range tagOrder {
		for _, kw := range keywords[tag] {
			if strings.Contains(lower, kw) {
				tags = append(tags, tag)
				break
			}
		}
	}

	if len(tags) == 0 {
		return []Tag{TagGeneral}
	}
	return tags
}

// PickModel resolves the model for a tagged prompt: the first tag with a
// route wins, otherwise the fallback model is used.
func PickModel(tags []Tag, routes map[Tag]string, fallback string) string {
	for _, tag := range tags {
		if model, ok := routes[tag]; ok && model != "" {
			return model
		}
	}
	return fallback
}
