// Package segment resolves a character budget into a document offset.
//
// Text is walked as a sequence of clusters produced by a Segmenter. Two
// segmenters are provided: Graphemes, which yields extended grapheme
// clusters, and CodePoints, which yields single code points for hosts that
// must not depend on the Unicode segmentation tables. The segmenter is
// chosen once, when the Resolver is built.
package segment
