package types

import "go.uber.org/zap"

const (
	// DefaultMaxExtraBlocks bounds the extra data block chain. Real shortcuts
	// carry a handful of blocks; the cap only exists so a file made of
	// minimal 8-byte blocks cannot cause unbounded work.
	DefaultMaxExtraBlocks = 1 << 16

	// DefaultMaxPropertyValues bounds the number of serialized property values
	// decoded from a single property store block.
	DefaultMaxPropertyValues = 4096
)

// Options controls a single decode. The zero value is usable; WithDefaults
// fills unset fields.
type Options struct {
	// Codepage interprets 8-bit strings. Zero selects DefaultCodepage.
	Codepage Codepage

	// MaxExtraBlocks caps the number of extra data blocks decoded before
	// failing with ErrKindResourceLimit. Zero selects DefaultMaxExtraBlocks;
	// negative values fail Validate.
	MaxExtraBlocks int

	// MaxPropertyValues caps the values decoded from one property store.
	// Zero selects DefaultMaxPropertyValues.
	MaxPropertyValues int

	// Logger receives debug records for every section and block decoded.
	// Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns Options with every field set to its default.
func DefaultOptions() Options {
	return Options{}.WithDefaults()
}

// WithDefaults returns a copy of o with zero fields replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.Codepage == 0 {
		o.Codepage = DefaultCodepage
	}
	if o.MaxExtraBlocks == 0 {
		o.MaxExtraBlocks = DefaultMaxExtraBlocks
	}
	if o.MaxPropertyValues == 0 {
		o.MaxPropertyValues = DefaultMaxPropertyValues
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Validate reports option values that can never decode anything.
func (o Options) Validate() error {
	if o.Codepage != 0 && !o.Codepage.Supported() {
		return Formatf("options", -1, "unsupported codepage %d", int(o.Codepage))
	}
	if o.MaxExtraBlocks < 0 {
		return Formatf("options", -1, "negative extra block cap %d", o.MaxExtraBlocks)
	}
	if o.MaxPropertyValues < 0 {
		return Formatf("options", -1, "negative property value cap %d", o.MaxPropertyValues)
	}
	return nil
}
