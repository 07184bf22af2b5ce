// Package styles defines how diagram elements are drawn as SVG.
//
// A [Style] receives pre-computed geometry ([Table], [Edge]) and writes SVG
// fragments into a buffer. The built-in styles are palettes of [Theme]:
// [Light] (the default) and [Dark]. Use [ByName] to resolve a style from a
// command-line flag or request parameter.
package styles
