package colorutil

import (
	"strconv"
	"strings"
)

// rgbChannels holds one parsed color as 8-bit channels.
type rgbChannels struct {
	r, g, b uint8
}

// Normalize converts a CSS color string into lowercase "#rrggbb" form.
// It accepts hex colors (#rgb, #rrggbb, with or without "#") and
// rgb()/rgba() function notation.
//
// The second return value is false when the input carries no usable color:
// "transparent", a fully transparent rgba() value, or anything unparseable.
// Absence of a color is an ordinary outcome during extraction, so no error
// is returned.
//
// Normalize is idempotent: feeding its own output back yields the same
// string.
func Normalize(s string) (string, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "transparent" || s == "none" || s == "inherit" || s == "initial" || s == "currentcolor" {
		return "", false
	}

	if strings.HasPrefix(s, "rgb") {
		return normalizeRGBFunc(s)
	}

	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3:
		// Short form: each digit doubles (#f80 -> #ff8800).
		var b strings.Builder
		b.WriteByte('#')
		for i := range 3 {
			if !isHexDigit(hex[i]) {
				return "", false
			}
			b.WriteByte(hex[i])
			b.WriteByte(hex[i])
		}
		return b.String(), true
	case 6:
		for i := range 6 {
			if !isHexDigit(hex[i]) {
				return "", false
			}
		}
		return "#" + hex, true
	case 8:
		// #rrggbbaa: a zero alpha channel means no visible color.
		for i := range 8 {
			if !isHexDigit(hex[i]) {
				return "", false
			}
		}
		if hex[6] == '0' && hex[7] == '0' {
			return "", false
		}
		return "#" + hex[:6], true
	default:
		return "", false
	}
}

// normalizeRGBFunc parses rgb(r, g, b) and rgba(r, g, b, a) notation.
// Fully transparent values (alpha 0) are treated as no color.
func normalizeRGBFunc(s string) (string, bool) {
	open := strings.IndexByte(s, '(')
	close := strings.LastIndexByte(s, ')')
	if open < 0 || close < open {
		return "", false
	}

	body := s[open+1 : close]
	// Modern CSS allows space-separated channels with "/" before alpha.
	body = strings.ReplaceAll(body, "/", ",")
	var parts []string
	if strings.ContainsRune(body, ',') {
		parts = strings.Split(body, ",")
	} else {
		parts = strings.Fields(body)
	}
	if len(parts) < 3 {
		return "", false
	}

	var ch [3]uint8
	for i := range 3 {
		v, ok := parseChannel(parts[i])
		if !ok {
			return "", false
		}
		ch[i] = v
	}

	if len(parts) >= 4 {
		alpha, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return "", false
		}
		if alpha == 0 {
			return "", false
		}
	}

	const hexDigits = "0123456789abcdef"
	out := make([]byte, 7)
	out[0] = '#'
	for i, v := range ch {
		out[1+i*2] = hexDigits[v>>4]
		out[2+i*2] = hexDigits[v&0x0f]
	}
	return string(out), true
}

// parseChannel parses a single rgb() channel value, clamping to [0, 255].
// Percentage channels ("50%") are scaled to the 8-bit range.
func parseChannel(s string) (uint8, bool) {
	s = strings.TrimSpace(s)
	scale := 1.0
	if strings.HasSuffix(s, "%") {
		s = strings.TrimSuffix(s, "%")
		scale = 255.0 / 100.0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	f *= scale
	if f < 0 {
		f = 0
	}
	if f > 255 {
		f = 255
	}
	return uint8(f + 0.5), true
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}

// parseHex decodes a normalized "#rrggbb" string. It tolerates the same
// inputs Normalize accepts, normalizing first, and reports false for
// non-colors so predicate callers degrade to zero values.
func parseHex(hex string) (rgbChannels, bool) {
	norm, ok := Normalize(hex)
	if !ok {
		return rgbChannels{}, false
	}
	v, err := strconv.ParseUint(norm[1:], 16, 32)
	if err != nil {
		return rgbChannels{}, false
	}
	return rgbChannels{
		r: uint8(v >> 16),
		g: uint8(v >> 8),
		b: uint8(v),
	}, true
}

// Saturation returns (max-min)/max over the RGB channels, the HSV-style
// saturation in [0, 1]. Black (max == 0) has saturation 0, never NaN.
func Saturation(hex string) float64 {
	c, ok := parseHex(hex)
	if !ok {
		return 0
	}
	maxC := max(c.r, c.g, c.b)
	minC := min(c.r, c.g, c.b)
	if maxC == 0 {
		return 0
	}
	return float64(maxC-minC) / float64(maxC)
}

// Luminance returns the perceptual luminance in [0, 1] using the
// Rec. 601 coefficients (0.299, 0.587, 0.114).
func Luminance(hex string) float64 {
	c, ok := parseHex(hex)
	if !ok {
		return 0
	}
	return (0.299*float64(c.r) + 0.587*float64(c.g) + 0.114*float64(c.b)) / 255.0
}

// Vibrancy scores how punchy a color reads: its saturation, penalized
// when luminance sits near either extreme where even saturated colors
// wash out. The 0.3 penalty applies below luminance 0.15 and above 0.85.
func Vibrancy(hex string) float64 {
	sat := Saturation(hex)
	lum := Luminance(hex)
	if lum < 0.15 || lum > 0.85 {
		return sat * 0.3
	}
	return sat
}

// IsNeutral reports whether a color is grayscale-like. The boundary is
// strict: saturation of exactly 0.15 is not neutral.
func IsNeutral(hex string) bool {
	return Saturation(hex) < 0.15
}

// IsNeutralOrDark is the stricter predicate applied at role-selection
// time. It excludes both low-saturation colors and very dark ones that
// would make poor primary/secondary/accent picks.
func IsNeutralOrDark(hex string) bool {
	return Saturation(hex) < 0.25 || Luminance(hex) < 0.15
}

// IsValidBrandColor reports whether a color can appear in the ranked
// palette. Near-white and near-black are always rejected; the remainder
// qualifies on saturation above 0.1 or mid-range luminance.
func IsValidBrandColor(hex string) bool {
	lum := Luminance(hex)
	if lum > 0.95 || lum < 0.05 {
		return false
	}
	return Saturation(hex) > 0.1 || (lum > 0.1 && lum < 0.9)
}
