package fund

// Doc is a supplementary context document passed to the scorer alongside
// each batch. Optional: a run without one scores on the base rubric only.
type Doc struct {
	Title   string
	Content string
}
