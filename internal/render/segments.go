package render

import "strings"

// Fence delimits code in model responses.
const Fence = "```"

// SegmentKind distinguishes prose from code.
type SegmentKind int

const (
	SegmentMarkdown SegmentKind = iota
	SegmentCode
)

// Segment is one piece of a fenced response.
type Segment struct {
	Kind SegmentKind
	// Text is the trimmed content to display.
	Text string
	// Raw is the untrimmed text between fences, minus a stripped tag line.
	Raw string
}

// SplitSegments splits text on Fence. Even pieces are markdown and odd
// pieces are code. A code piece whose first line equals lang (ignoring case
// and surrounding space) has that line removed.
func SplitSegments(text, lang string) []Segment {
	parts := strings.Split(text, Fence)
	segs := make([]Segment, 0, len(parts))
	for i, part := range parts {
		if i%2 == 0 {
			segs = append(segs, Segment{Kind: SegmentMarkdown, Text: strings.TrimSpace(part), Raw: part})
			continue
		}
		raw := stripTagLine(part, lang)
		segs = append(segs, Segment{Kind: SegmentCode, Text: strings.Trim(raw, "\n"), Raw: raw})
	}
	return segs
}

// JoinSegments reverses SplitSegments, minus any stripped tag lines.
func JoinSegments(segs []Segment) string {
	raws := make([]string, len(segs))
	for i, s := range segs {
		raws[i] = s.Raw
	}
	return strings.Join(raws, Fence)
}

func stripTagLine(code, lang string) string {
	if lang == "" {
		return code
	}
	first, rest, found := strings.Cut(code, "\n")
	if !found {
		return code
	}
	if strings.EqualFold(strings.TrimSpace(first), lang) {
		return rest
	}
	return code
}
