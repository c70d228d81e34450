package logstore

import "github.com/hireloop/evalcore/pkg/logger"

// S3Option applies a configuration option to the S3Store.
type S3Option func(*S3Store)

// WithS3Logger sets a custom logger for the store.
func WithS3Logger(log logger.Logger) S3Option {
	return func(s *S3Store) {
		if log != nil {
			s.log = log
		}
	}
}
