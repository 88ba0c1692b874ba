package color

// namedColors maps lowercase CSS colour names to their sRGB triples.
var namedColors = map[string]Color{
	"aliceblue":    {240, 248, 255},
	"antiquewhite": {250, 235, 215},
	"aqua":         {0, 255, 255},
	"aquamarine":   {127, 255, 212},
	"beige":        {245, 245, 220},
	"black":        {0, 0, 0},
	"blue":         {0, 0, 255},
	"brown":        {165, 42, 42},
	"coral":        {255, 127, 80},
	"crimson":      {220, 20, 60},
	"cyan":         {0, 255, 255},
	"darkblue":     {0, 0, 139},
	"darkgray":     {169, 169, 169},
	"darkgreen":    {0, 100, 0},
	"darkred":      {139, 0, 0},
	"gold":         {255, 215, 0},
	"gray":         {128, 128, 128},
	"green":        {0, 128, 0},
	"hotpink":      {255, 105, 180},
	"indigo":       {75, 0, 130},
	"ivory":        {255, 255, 240},
	"lavender":     {230, 230, 250},
	"lime":         {0, 255, 0},
	"magenta":      {255, 0, 255},
	"maroon":       {128, 0, 0},
	"navy":         {0, 0, 128},
	"olive":        {128, 128, 0},
	"orange":       {255, 165, 0},
	"orchid":       {218, 112, 214},
	"pink":         {255, 192, 203},
	"plum":         {221, 160, 221},
	"purple":       {128, 0, 128},
	"red":          {255, 0, 0},
	"salmon":       {250, 128, 114},
	"silver":       {192, 192, 192},
	"teal":         {0, 128, 128},
	"tomato":       {255, 99, 71},
	"violet":       {238, 130, 238},
	"white":        {255, 255, 255},
	"yellow":       {255, 255, 0},
	"yellowgreen":  {154, 205, 50},
}

// Named returns the colour registered under name. Lookup is exact; callers
// normalize case and whitespace first.
func Named(name string) (Color, bool) {
	c, ok := namedColors[name]
	return c, ok
}

// NamedColorCount returns the number of entries in the named colour table.
func NamedColorCount() int {
	return len(namedColors)
}
