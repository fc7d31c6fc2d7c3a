package segment

import "github.com/dshills/charlimit/internal/measure"

// Resolver converts a character budget into a UTF-16 offset into text.
type Resolver struct {
	seg    Segmenter
	strlen measure.Func
}

// NewResolver creates a resolver. A nil segmenter selects Default and a nil
// strlen selects measure.UTF16.
func NewResolver(seg Segmenter, strlen measure.Func) *Resolver {
	if seg == nil {
		seg = Default()
	}
	if strlen == nil {
		strlen = measure.UTF16
	}
	return &Resolver{seg: seg, strlen: strlen}
}

// Segmenter returns the segmenter in use.
func (r *Resolver) Segmenter() Segmenter { return r.seg }

// Resolve returns the UTF-16 offset at which text stops fitting in
// maxCharacters, as measured by the resolver's strlen.
//
// Clusters are consumed whole: the offset is the end of the last cluster
// whose cumulative length is still within the budget. If the whole text
// fits, the result is the UTF-16 length of text.
func (r *Resolver) Resolve(text string, maxCharacters int) int {
	if maxCharacters <= 0 {
		return 0
	}
	length, offset := 0, 0
	for cluster := range r.seg.Clusters(text) {
		next := length + r.strlen(cluster)
		if next > maxCharacters {
			break
		}
		length = next
		offset += measure.UTF16(cluster)
	}
	return offset
}

// Resolve is a convenience wrapper using the default segmenter.
func Resolve(text string, maxCharacters int, strlen measure.Func) int {
	return NewResolver(nil, strlen).Resolve(text, maxCharacters)
}
