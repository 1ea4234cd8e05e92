package blockfilter

import "fmt"

// InvalidConfigError reports that a Config failed validation before any
// filter was constructed.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("blockfilter: invalid config field %q: %s", e.Field, e.Reason)
}

// UnsupportedConfigError reports that a Config is well-formed but has no
// compiled probe kernel for its (shape, unroll factor) pair.
type UnsupportedConfigError struct {
	Detail string
}

func (e *UnsupportedConfigError) Error() string {
	return fmt.Sprintf("blockfilter: unsupported configuration: %s", e.Detail)
}

// SizeTooSmallError reports that the caller-supplied backing storage is
// smaller than the filter's computed footprint.
type SizeTooSmallError struct {
	NeedBytes, GotBytes int
}

func (e *SizeTooSmallError) Error() string {
	return fmt.Sprintf("blockfilter: backing storage too small: need %d bytes, got %d", e.NeedBytes, e.GotBytes)
}

// TuningFailedError reports that Tune could not find any measurable
// unroll factor for a filter's shape.
type TuningFailedError struct {
	Detail string
}

func (e *TuningFailedError) Error() string {
	return fmt.Sprintf("blockfilter: tuning failed: %s", e.Detail)
}

// CuckooInsertFullError reports that a cuckoo insert exhausted its kick
// budget without finding a free slot; the filter should be considered at
// capacity for this key's candidate buckets.
type CuckooInsertFullError struct {
	Key uint32
}

func (e *CuckooInsertFullError) Error() string {
	return fmt.Sprintf("blockfilter: cuckoo filter full, could not insert key %d within kick budget", e.Key)
}
