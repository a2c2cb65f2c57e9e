package decode

import (
	"path/filepath"
	"strings"
	"time"
)

// Options tune a single decode.
type Options struct {
	// ScaleHint multiplies the intrinsic size of vector images.
	ScaleHint float64
	// MinFrameDuration replaces shorter animation delays.
	MinFrameDuration time.Duration
	// MaxBytes bounds the decoded size of all frames. Larger images fail
	// with ErrTooLarge; vector images are rasterized smaller instead.
	MaxBytes int64
}

func (o Options) withDefaults() Options {
	if o.ScaleHint <= 0 {
		o.ScaleHint = 1
	}
	if o.MinFrameDuration <= 0 {
		o.MinFrameDuration = DefaultMinFrameDuration
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	return o
}

// Decoder handles one family of formats.
type Decoder interface {
	Name() string
	// Sniff reports whether head starts like data this decoder understands.
	Sniff(head []byte) bool
	// Extensions lists lower-case file extensions used when sniffing fails.
	Extensions() []string
	Decode(data []byte, opts Options) (*FrameSequence, error)
}

// Registry picks a decoder for a file and runs the full decode pipeline.
type Registry struct {
	decoders []Decoder
}

// NewRegistry returns a registry trying decoders in order.
func NewRegistry(decoders ...Decoder) *Registry {
	return &Registry{decoders: decoders}
}

// DefaultRegistry knows every format the viewer supports.
func DefaultRegistry() *Registry {
	return NewRegistry(&GIFDecoder{}, &SVGDecoder{}, &RasterDecoder{})
}

// Select returns the decoder for data, preferring content over the name's extension.
func (r *Registry) Select(name string, data []byte) Decoder {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	for _, d := range r.decoders {
		if d.Sniff(head) {
			return d
		}
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, d := range r.decoders {
		for _, e := range d.Extensions() {
			if e == ext {
				return d
			}
		}
	}
	return nil
}

// Decode decodes data and applies its embedded orientation.
func (r *Registry) Decode(name string, data []byte, opts Options) (*FrameSequence, error) {
	opts = opts.withDefaults()
	d := r.Select(name, data)
	if d == nil {
		return nil, &Error{Kind: KindUnsupported, Path: name, Err: ErrUnsupported}
	}
	seq, err := d.Decode(data, opts)
	if err != nil {
		return nil, &Error{Kind: KindMalformed, Path: name, Err: err}
	}
	if seq == nil || seq.Len() == 0 {
		return nil, &Error{Kind: KindMalformed, Path: name, Err: ErrMalformed}
	}
	if !seq.Vector {
		seq = Normalize(seq, ReadOrientation(data))
	}
	return seq, nil
}

const sniffLen = 1024
