package objtree

// Limits bounds a tree build. The zero value of any field selects its
// default.
type Limits struct {
	// DefaultDepth replaces a requested max depth that is zero or negative
	DefaultDepth int
	// DepthCeiling is the largest max depth a caller may request
	DepthCeiling int
	// ScanWidth is how many elements of each array are scanned for references
	ScanWidth int
	// ObjectBudget caps the number of objects taken off the work queue
	ObjectBudget int
	// InitialChildren is the starting capacity of every child list
	InitialChildren int
	// ExpandStreams follows references in stream dictionaries. Streams are
	// leaves otherwise.
	ExpandStreams bool
}

const (
	DefaultDepth           = 32
	DefaultDepthCeiling    = 1024
	DefaultScanWidth       = 100
	DefaultObjectBudget    = 1000000
	DefaultInitialChildren = 50
)

// DefaultLimits returns the limits used when none are configured
func DefaultLimits() Limits {
	return Limits{
		DefaultDepth:    DefaultDepth,
		DepthCeiling:    DefaultDepthCeiling,
		ScanWidth:       DefaultScanWidth,
		ObjectBudget:    DefaultObjectBudget,
		InitialChildren: DefaultInitialChildren,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.DefaultDepth <= 0 {
		l.DefaultDepth = d.DefaultDepth
	}
	if l.DepthCeiling <= 0 {
		l.DepthCeiling = d.DepthCeiling
	}
	if l.ScanWidth <= 0 {
		l.ScanWidth = d.ScanWidth
	}
	if l.ObjectBudget <= 0 {
		l.ObjectBudget = d.ObjectBudget
	}
	if l.InitialChildren <= 0 {
		l.InitialChildren = d.InitialChildren
	}
	if l.DefaultDepth > l.DepthCeiling {
		l.DefaultDepth = l.DepthCeiling
	}
	return l
}

// EffectiveDepth returns the max depth a build will use for requested
func (l Limits) EffectiveDepth(requested int) int {
	l = l.withDefaults()
	switch {
	case requested <= 0:
		return l.DefaultDepth
	case requested > l.DepthCeiling:
		return l.DepthCeiling
	default:
		return requested
	}
}
