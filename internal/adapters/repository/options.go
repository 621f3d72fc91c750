package repository

// Option applies a configuration option to the VersionedStore.
type Option func(*VersionedStore)

// WithValidation enables structural validation of both trees after every
// mutation. Costs O(n) per mutation, so it is meant for tests and
// debugging deployments.
func WithValidation(enabled bool) Option {
	return func(s *VersionedStore) {
		s.validate = enabled
	}
}
