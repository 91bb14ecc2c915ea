package domain

// UnmappedStatus is a canonicalized vendor status that fell through to the default stage,
// with the number of times it was seen.
type UnmappedStatus struct {
	Canonical string `json:"canonical"`
	Count     int64  `json:"count"`
}
