// Package models - class label sets for the inspection models.
package models

import "fmt"

// OutputClass represents one detection label.
type OutputClass struct {
	// The integer index returned by the model.
	Index int
	// The human-readable label.
	Name string
}

// ClassSet ties a model to its ordered list of labels.
type ClassSet struct {
	// Model is the class set identifier.
	Model string
	// Classes that the model can emit.
	Classes []OutputClass

	byIndex map[int]string
}

// NewClassSet builds a class set from ordered label names.
func NewClassSet(model string, names ...string) *ClassSet {
	s := &ClassSet{Model: model, byIndex: make(map[int]string, len(names))}
	for i, name := range names {
		s.Classes = append(s.Classes, OutputClass{Index: i, Name: name})
		s.byIndex[i] = name
	}
	return s
}

// Label returns the name of a class index, or a numeric placeholder for an
// index the model was not declared with.
func (s *ClassSet) Label(index int) string {
	if name, ok := s.byIndex[index]; ok {
		return name
	}
	return fmt.Sprintf("class_%d", index)
}

// PartClasses is the label set of the part segmentation model: a single
// coupling class.
func PartClasses() *ClassSet {
	return NewClassSet("part-segmentation", "coupling")
}
