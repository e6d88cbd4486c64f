package theme

import (
	"math"
	"strconv"
	"strings"
)

// cubeLevels are the channel values of the 6x6x6 color cube (indices
// 16-231 of the 256-color palette).
var cubeLevels = [6]int{0, 95, 135, 175, 215, 255}

// Adapt converts every hex color in t to the nearest 256-color palette
// index when the terminal has less than 24-bit color. At 24 bits or more
// t is returned unchanged.
func Adapt(t Theme, colorDepth int) Theme {
	if colorDepth >= 24 {
		return t
	}
	for _, c := range []*string{
		&t.Background, &t.Foreground, &t.Dim, &t.Accent,
		&t.Border, &t.Header, &t.Date, &t.Clock,
		&t.DotActive, &t.DotInactive, &t.Placeholder,
		&t.HelpKey, &t.HelpDesc,
	} {
		*c = thTo256Color(*c)
	}
	return t
}

// thTo256Color maps "#rrggbb" to the closest palette index, as a decimal
// string lipgloss accepts. Unparseable input is returned as is.
func thTo256Color(hex string) string {
	r, g, b, ok := thParseHex(hex)
	if !ok {
		return hex
	}

	cube := thNearestCubeIndex(r, g, b)
	cr, cg, cb := thCubeToRGB(cube)
	gray := thNearestGray(r, g, b)
	gv := thGrayToValue(gray)

	if thColorDistance(r, g, b, gv, gv, gv) < thColorDistance(r, g, b, cr, cg, cb) {
		return strconv.Itoa(gray)
	}
	return strconv.Itoa(cube)
}

func thNearestCubeIndex(r, g, b uint8) int {
	return 16 + 36*thNearestLevel(r) + 6*thNearestLevel(g) + thNearestLevel(b)
}

func thNearestLevel(v uint8) int {
	best, bestDist := 0, math.MaxInt
	for i, lv := range cubeLevels {
		if d := abs(int(v) - lv); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// thNearestGray picks from the 24-step gray ramp (232-255, values 8..238).
func thNearestGray(r, g, b uint8) int {
	avg := (int(r) + int(g) + int(b)) / 3
	switch {
	case avg < 4:
		return 232
	case avg > 243:
		return 255
	}
	return 232 + min(23, max(0, (avg-8+5)/10))
}

func thCubeToRGB(idx int) (r, g, b uint8) {
	idx -= 16
	return uint8(cubeLevels[idx/36]), uint8(cubeLevels[(idx%36)/6]), uint8(cubeLevels[idx%6])
}

func thGrayToValue(idx int) uint8 {
	return uint8(8 + (idx-232)*10)
}

func thColorDistance(r1, g1, b1, r2, g2, b2 uint8) float64 {
	dr := float64(r1) - float64(r2)
	dg := float64(g1) - float64(g2)
	db := float64(b1) - float64(b2)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// thParseHex accepts "#RRGGBB" or "RRGGBB".
func thParseHex(hex string) (r, g, b uint8, ok bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
