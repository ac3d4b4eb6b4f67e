package sentiment

import "fmt"

type rgb struct{ R, G, B uint8 }

var palette = map[Category]rgb{
	Positive: {40, 167, 69},
	Neutral:  {108, 117, 125},
	Negative: {220, 53, 69},
}

// RGB returns the base colour of a category. Unknown categories map to neutral grey.
func RGB(c Category) (r, g, b uint8) {
	p, ok := palette[c]
	if !ok {
		p = palette[Neutral]
	}
	return p.R, p.G, p.B
}

// Color formats the category colour as a CSS rgba() string.
func Color(c Category, alpha float64) string {
	r, g, b := RGB(c)
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", r, g, b, alpha)
}
