package recon

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Engine holds the collation locale shared by the capacity tracker and
// the sort/filter engine. A zero locale falls back to the root collation.
type Engine struct {
	tag language.Tag
}

// NewEngine parses the locale (BCP 47, e.g. "ja", "en-US"). An empty or
// unparseable locale uses the language-neutral root collation.
func NewEngine(locale string) *Engine {
	tag := language.Und
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			tag = parsed
		}
	}
	return &Engine{tag: tag}
}

// collator builds a fresh collator per call; collate.Collator carries
// internal buffers and is not safe for concurrent use.
func (e *Engine) collator() *collate.Collator {
	return collate.New(e.tag)
}
