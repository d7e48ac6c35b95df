package model

// Dimension identifies one rubric dimension of the on-page audit.
type Dimension string

const (
	DimensionTitle           Dimension = "title"
	DimensionMetaDescription Dimension = "meta_description"
	DimensionContent         Dimension = "content"
	DimensionHeadings        Dimension = "headings"
)

// dimensionOrder fixes the output ordering of findings.
var dimensionOrder = map[Dimension]int{
	DimensionTitle:           0,
	DimensionMetaDescription: 1,
	DimensionContent:         2,
	DimensionHeadings:        3,
}

// Order returns the sort position of the dimension. Unknown dimensions sort
// after the known ones.
func (d Dimension) Order() int {
	if o, ok := dimensionOrder[d]; ok {
		return o
	}
	return len(dimensionOrder)
}

// FindingStatus is the verdict for a single rubric dimension.
type FindingStatus string

const (
	StatusOK      FindingStatus = "ok"
	StatusMissing FindingStatus = "missing"
	StatusWeak    FindingStatus = "weak"
)

// Finding is one rubric-dimension evaluation result for a page. A full audit
// yields exactly one Finding per dimension, sorted by dimension order.
type Finding struct {
	Dimension Dimension     `json:"dimension"`
	Status    FindingStatus `json:"status"`
	Detail    string        `json:"detail,omitempty"`
}
