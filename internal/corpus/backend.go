package corpus

// Backend is a bucketed key-value store. Values are raw bytes; Store
// decides the encoding.
type Backend interface {
	// EnsureBucket creates the bucket if it does not exist.
	EnsureBucket(name []byte) error

	Put(bucket, key, value []byte) error
	// Get returns nil, nil for a missing key.
	Get(bucket, key []byte) ([]byte, error)

	// ForEach visits the bucket in ascending key order.
	ForEach(bucket []byte, fn func(k, v []byte) error) error

	Close() error
}
