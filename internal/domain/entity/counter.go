package entity

// Sequence names a per-type id counter. Ids start at 1 and are never reused.
type Sequence string

const (
	SequenceUser    Sequence = "users"
	SequenceStore   Sequence = "stores"
	SequenceRequest Sequence = "requests"
	SequenceOffer   Sequence = "offers"
)
