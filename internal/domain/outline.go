package domain

import "slices"

// HeadingLevel is the heading rank of an outline node.
type HeadingLevel string

const (
	HeadingH1 HeadingLevel = "H1"
	HeadingH2 HeadingLevel = "H2"
	HeadingH3 HeadingLevel = "H3"
)

// Outline is the nested structure produced by outline generation.
type Outline struct {
	Intro    OutlineHeading   `json:"intro"`
	Sections []OutlineSection `json:"sections"`
}

// OutlineHeading is a single heading with an empty content placeholder.
type OutlineHeading struct {
	ID      string       `json:"id,omitempty"`
	Level   HeadingLevel `json:"level"`
	Title   string       `json:"title"`
	Content string       `json:"content"`
}

// OutlineSection is an H2 heading with its H3 subsections.
type OutlineSection struct {
	OutlineHeading
	Subsections []OutlineHeading `json:"subsections"`
}

// Clone returns a deep copy of the outline.
func (o *Outline) Clone() *Outline {
	if o == nil {
		return nil
	}
	c := *o
	c.Sections = make([]OutlineSection, len(o.Sections))
	for i, s := range o.Sections {
		s.Subsections = slices.Clone(s.Subsections)
		c.Sections[i] = s
	}
	return &c
}
