package pdftree

import (
	"github.com/sirupsen/logrus"

	"github.com/tsawler/pdftree/config"
	"github.com/tsawler/pdftree/objtree"
	"github.com/tsawler/pdftree/reader"
	"github.com/tsawler/pdftree/serialize"
)

// options holds build and reader configuration
type options struct {
	limits     objtree.Limits
	logger     logrus.FieldLogger
	allocator  objtree.Allocator
	serializer *serialize.Serializer
	cacheSize  int
}

// Option configures BuildTree
type Option func(*options)

// defaultOptions returns the default configuration
func defaultOptions() options {
	return options{
		limits:     objtree.DefaultLimits(),
		logger:     logrus.StandardLogger(),
		allocator:  objtree.HeapAllocator{},
		serializer: &serialize.Serializer{},
		cacheSize:  reader.DefaultCacheSize,
	}
}

// clone copies the options. The serializer is copied by value.
func (o options) clone() options {
	n := o
	if o.serializer != nil {
		s := *o.serializer
		n.serializer = &s
	}
	return n
}

func (o options) builderOptions() []objtree.Option {
	return []objtree.Option{
		objtree.WithLimits(o.limits),
		objtree.WithLogger(o.logger),
		objtree.WithAllocator(o.allocator),
		objtree.WithSerializer(o.serializer),
	}
}

func (o options) readerOptions() []reader.Option {
	return []reader.Option{
		reader.WithCacheSize(o.cacheSize),
		reader.WithLogger(o.logger),
	}
}

// WithLimits sets traversal limits
func WithLimits(l objtree.Limits) Option {
	return func(o *options) { o.limits = l }
}

// WithLogger sets the logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithAllocator sets the node allocator
func WithAllocator(a objtree.Allocator) Option {
	return func(o *options) {
		if a != nil {
			o.allocator = a
		}
	}
}

// WithSerializer sets the serializer used for node content
func WithSerializer(s *serialize.Serializer) Option {
	return func(o *options) {
		if s != nil {
			o.serializer = s
		}
	}
}

// WithConfig applies limits, serializer and cache settings from cfg
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		if cfg == nil {
			return
		}
		o.limits = cfg.TreeLimits()
		o.serializer = cfg.Serializer()
		o.cacheSize = cfg.Reader.CacheSize
	}
}
