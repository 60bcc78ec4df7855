package domain

import "github.com/pkg/errors"

var (
	// ErrNoData marks a recoverable empty result: absent file, empty query, empty filter match.
	ErrNoData = errors.New("no data")

	// ErrMalformedSource marks an input whose structure can no longer be trusted.
	ErrMalformedSource = errors.New("malformed source")

	// ErrMissingCrossReference aborts a reconciliation that has no join column.
	ErrMissingCrossReference = errors.New("cross reference column missing")

	// ErrNoInformes means the session holds no uploaded Informes file.
	ErrNoInformes = errors.New("informes not loaded")
)
