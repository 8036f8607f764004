package curriculum

import (
	"errors"
	"fmt"
)

var (
	ErrParentUnset = errors.New("parent level not selected")
	ErrUnknown     = errors.New("unknown selection")
)

// Level identifies one step of the selection cascade.
type Level int

const (
	LevelCurriculum Level = iota
	LevelSubject
	LevelUnit
	LevelStandard
)

// AllLevels returns the cascade levels from top to bottom.
func AllLevels() []Level {
	return []Level{LevelCurriculum, LevelSubject, LevelUnit, LevelStandard}
}

func (l Level) String() string {
	switch l {
	case LevelCurriculum:
		return "Curriculum"
	case LevelSubject:
		return "Subject"
	case LevelUnit:
		return "Unit"
	case LevelStandard:
		return "Achievement standard"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Option is a selectable entry at one level.
type Option struct {
	ID    string
	Label string
}

// Selection walks the catalog from curriculum down to a single standard.
// Choosing a level clears every level below it.
type Selection struct {
	catalog *Catalog

	curriculum *Curriculum
	subject    *Subject
	unit       *Unit
	standard   *Standard
}

// NewSelection starts an empty selection over catalog.
func NewSelection(catalog *Catalog) *Selection {
	return &Selection{catalog: catalog}
}

// SelectCurriculum chooses a curriculum and resets subject, unit and standard.
func (s *Selection) SelectCurriculum(id string) error {
	cur, ok := s.catalog.Curriculum(id)
	if !ok {
		return fmt.Errorf("%w curriculum %q", ErrUnknown, id)
	}
	s.curriculum = cur
	s.subject, s.unit, s.standard = nil, nil, nil
	return nil
}

// SelectSubject chooses a subject and resets unit and standard.
func (s *Selection) SelectSubject(id string) error {
	if s.curriculum == nil {
		return fmt.Errorf("select subject: %w", ErrParentUnset)
	}
	sub, ok := s.curriculum.Subject(id)
	if !ok {
		return fmt.Errorf("%w subject %q in %q", ErrUnknown, id, s.curriculum.ID)
	}
	s.subject = sub
	s.unit, s.standard = nil, nil
	return nil
}

// SelectUnit chooses a unit and resets the standard.
func (s *Selection) SelectUnit(id string) error {
	if s.subject == nil {
		return fmt.Errorf("select unit: %w", ErrParentUnset)
	}
	u, ok := s.subject.Unit(id)
	if !ok {
		return fmt.Errorf("%w unit %q in %q", ErrUnknown, id, s.subject.ID)
	}
	s.unit = u
	s.standard = nil
	return nil
}

// SelectStandard chooses the achievement standard.
func (s *Selection) SelectStandard(code string) error {
	if s.unit == nil {
		return fmt.Errorf("select standard: %w", ErrParentUnset)
	}
	st, ok := s.unit.Standard(code)
	if !ok {
		return fmt.Errorf("%w standard %q in %q", ErrUnknown, code, s.unit.ID)
	}
	s.standard = st
	return nil
}

// Select dispatches to the transition for level.
func (s *Selection) Select(level Level, id string) error {
	switch level {
	case LevelCurriculum:
		return s.SelectCurriculum(id)
	case LevelSubject:
		return s.SelectSubject(id)
	case LevelUnit:
		return s.SelectUnit(id)
	case LevelStandard:
		return s.SelectStandard(id)
	}
	return fmt.Errorf("%w level %d", ErrUnknown, int(level))
}

// Options lists the choices available at level given the current parents.
// It returns nil when the parent level is unset.
func (s *Selection) Options(level Level) []Option {
	var out []Option
	switch level {
	case LevelCurriculum:
		for _, c := range s.catalog.Curricula {
			out = append(out, Option{ID: c.ID, Label: c.Name})
		}
	case LevelSubject:
		if s.curriculum == nil {
			return nil
		}
		for _, sub := range s.curriculum.Subjects {
			out = append(out, Option{ID: sub.ID, Label: sub.Name})
		}
	case LevelUnit:
		if s.subject == nil {
			return nil
		}
		for _, u := range s.subject.Units {
			out = append(out, Option{ID: u.ID, Label: u.Name})
		}
	case LevelStandard:
		if s.unit == nil {
			return nil
		}
		for _, st := range s.unit.Standards {
			out = append(out, Option{ID: st.Code, Label: st.Code + " " + st.Description})
		}
	}
	return out
}

// Selected returns the chosen ID at level, or "" if unset.
func (s *Selection) Selected(level Level) string {
	switch level {
	case LevelCurriculum:
		if s.curriculum != nil {
			return s.curriculum.ID
		}
	case LevelSubject:
		if s.subject != nil {
			return s.subject.ID
		}
	case LevelUnit:
		if s.unit != nil {
			return s.unit.ID
		}
	case LevelStandard:
		if s.standard != nil {
			return s.standard.Code
		}
	}
	return ""
}

// Complete reports whether all four levels are chosen.
func (s *Selection) Complete() bool {
	return s.curriculum != nil && s.subject != nil && s.unit != nil && s.standard != nil
}

// Topic is a fully resolved selection, ready for content generation.
type Topic struct {
	Curriculum  string
	Subject     string
	Unit        string
	StandardID  string
	Description string
}

// String renders the topic as a breadcrumb.
func (t Topic) String() string {
	return fmt.Sprintf("%s > %s > %s > %s", t.Curriculum, t.Subject, t.Unit, t.StandardID)
}

// Topic returns the resolved topic once the selection is complete.
func (s *Selection) Topic() (Topic, bool) {
	if !s.Complete() {
		return Topic{}, false
	}
	return Topic{
		Curriculum:  s.curriculum.Name,
		Subject:     s.subject.Name,
		Unit:        s.unit.Name,
		StandardID:  s.standard.Code,
		Description: s.standard.Description,
	}, true
}
