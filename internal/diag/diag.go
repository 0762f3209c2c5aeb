// Package diag collects the non-fatal structural findings produced while building an index.
package diag

import "fmt"

// Category tags a Warning with the structural problem it describes.
type Category string

const (
	SchemaRefUnresolved Category = "schema-ref-unresolved"
	CircularReference   Category = "circular-reference"
	UnknownFieldType    Category = "unknown-field-type"
	OperationlessPath   Category = "operationless-path"
	MissingDescription  Category = "missing-description"
	UnusedSchema        Category = "unused-schema"
)

// Categories lists every category in reporting order.
var Categories = []Category{
	SchemaRefUnresolved,
	CircularReference,
	UnknownFieldType,
	OperationlessPath,
	MissingDescription,
	UnusedSchema,
}

// Warning is a single structural finding. Warnings never abort a build.
type Warning struct {
	Category Category `json:"category" yaml:"category"`
	Message  string   `json:"message" yaml:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Category, w.Message)
}

// Collector accumulates warnings in emission order, dropping exact duplicates.
// A Collector is not safe for concurrent use.
type Collector struct {
	warnings []Warning
	seen     map[Warning]struct{}
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{seen: make(map[Warning]struct{})}
}

// Add records a warning unless an identical one was already recorded.
func (c *Collector) Add(category Category, format string, args ...any) {
	w := Warning{Category: category, Message: fmt.Sprintf(format, args...)}
	if _, ok := c.seen[w]; ok {
		return
	}
	c.seen[w] = struct{}{}
	c.warnings = append(c.warnings, w)
}

// Len returns the number of recorded warnings.
func (c *Collector) Len() int {
	return len(c.warnings)
}

// Warnings returns a copy of the recorded warnings.
func (c *Collector) Warnings() []Warning {
	out := make([]Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Count returns how many warnings of the given category were recorded.
func (c *Collector) Count(category Category) int {
	n := 0
	for _, w := range c.warnings {
		if w.Category == category {
			n++
		}
	}
	return n
}
