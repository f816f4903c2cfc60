// ABOUTME: Deduplication options snapshot controlling matching, normalization and merging
// ABOUTME: Options are passed by value so a run never observes another caller's mutation

package dedup

// Options is an immutable configuration snapshot for a deduplication run.
// A zero value disables everything; use DefaultOptions as a starting point.
type Options struct {
	// Threshold is the composite similarity a pair must strictly exceed
	// to be judged duplicates (0-1)
	Threshold float64

	// EnableURLNormalization turns on exact matching of normalized URLs
	EnableURLNormalization bool

	// EnableTitleMatching turns on same-domain title similarity matching
	EnableTitleMatching bool

	// TreatSubdomainsAsSame collapses hostnames to their last two labels
	// when comparing domains and normalizing URLs. This is a registrable
	// domain heuristic, not a public-suffix lookup.
	TreatSubdomainsAsSame bool

	// URL normalization toggles, applied in NormalizeURL
	IgnoreProtocol      bool
	IgnoreWww           bool
	IgnoreTrailingSlash bool
	IgnoreCaseInPath    bool
	IgnoreQueryParams   bool

	// EnableMerging folds duplicate field values into the kept record
	// instead of discarding them
	EnableMerging bool

	// MergeStrategy names the strategy used when merging. Unknown names
	// fall back to the conservative strategy.
	MergeStrategy string

	// EnableLogging captures a DuplicateLogEntry per decision
	EnableLogging bool
}

// DefaultOptions returns the default deduplication configuration
func DefaultOptions() Options {
	return Options{
		Threshold:              0.8,
		EnableURLNormalization: true,
		EnableTitleMatching:    true,
		TreatSubdomainsAsSame:  false,
		IgnoreProtocol:         true,
		IgnoreWww:              true,
		IgnoreTrailingSlash:    true,
		IgnoreCaseInPath:       false,
		IgnoreQueryParams:      false,
		EnableMerging:          false,
		MergeStrategy:          StrategyConservative,
		EnableLogging:          false,
	}
}

// Overrides carries call-scoped settings for a single Deduplicate call.
// They are merged onto the engine's stored options by value; the engine's
// configuration is never mutated on the call path.
type Overrides struct {
	// ShouldMerge overrides EnableMerging when non-nil
	ShouldMerge *bool

	// MergeStrategy overrides the strategy name when non-nil
	MergeStrategy *string
}

// apply returns a copy of opts with the overrides folded in
func (ov *Overrides) apply(opts Options) Options {
	if ov == nil {
		return opts
	}
	if ov.ShouldMerge != nil {
		opts.EnableMerging = *ov.ShouldMerge
	}
	if ov.MergeStrategy != nil {
		opts.MergeStrategy = *ov.MergeStrategy
	}
	return opts
}
