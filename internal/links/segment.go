package links

// SegmentKind tags a run of text as literal or as an existing anchor.
type SegmentKind uint8

const (
	SegmentLiteral SegmentKind = iota
	SegmentAnchor
)

func (k SegmentKind) String() string {
	if k == SegmentAnchor {
		return "anchor"
	}
	return "literal"
}

// Segment is a contiguous run of the segmented string.
type Segment struct {
	Kind SegmentKind
	Text string
}

// SegmentAnchors partitions s into anchor and literal runs. Concatenating the
// Text of the returned segments reproduces s exactly. Only anchors with the
// shape and href schemes this package generates count as anchors; any other
// markup stays literal and gets escaped downstream.
func SegmentAnchors(s string) []Segment {
	if s == "" {
		return nil
	}

	var segments []Segment
	last := 0
	for _, m := range anchorPattern.FindAllStringSubmatchIndex(s, -1) {
		if !trustedHref(s[m[2]:m[3]]) {
			continue
		}
		if m[0] > last {
			segments = append(segments, Segment{Kind: SegmentLiteral, Text: s[last:m[0]]})
		}
		segments = append(segments, Segment{Kind: SegmentAnchor, Text: s[m[0]:m[1]]})
		last = m[1]
	}
	if last < len(s) {
		segments = append(segments, Segment{Kind: SegmentLiteral, Text: s[last:]})
	}
	return segments
}
