package storage

// Engine is the local landing zone for write batches. It stores raw
// key/values without any transaction support of its own; atomicity of a
// batch is the only guarantee.
type Engine interface {
	// Write applies the whole batch atomically.
	Write(batch []Modify) error
	GetCF(cf string, key []byte) ([]byte, error)
	Close() error
}
