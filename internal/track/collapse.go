package track

// Absent reports whether a value is a sentinel meaning "no value this frame".
// Sentinels are left out when deciding whether a track is constant.
type Absent func(v string) bool

// Collapse reduces a per-frame value sequence. Values for which absent
// returns true are ignored for the comparison. When every remaining value is
// identical the result is that single value; when nothing remains ok is false
// and the track should be omitted. Otherwise the full sequence, sentinels
// included, is returned unchanged.
func Collapse(values []string, absent Absent) (out []string, ok bool) {
	var first string
	found := false
	constant := true
	for _, v := range values {
		if absent != nil && absent(v) {
			continue
		}
		if !found {
			first, found = v, true
			continue
		}
		if v != first {
			constant = false
			break
		}
	}

	switch {
	case !found:
		return nil, false
	case constant:
		return []string{first}, true
	default:
		return values, true
	}
}

// SentinelPolicy returns the sentinel test for attr. Stroke and fill have no
// sentinel since "transparent" is a real paint. A stroke width of "0" means
// unset rather than explicitly zero. Other shape attributes use the empty
// string. Sprite level attributes are always present.
func SentinelPolicy(attr string) Absent {
	switch attr {
	case Stroke, Fill, Opacity, Translate, Rotate, Skew, Scale, ClipPath:
		return nil
	case StrokeWidth:
		return func(v string) bool { return v == NoWidth || v == NoValue }
	default:
		return func(v string) bool { return v == NoValue }
	}
}
