// colorbot - colour tooling for UI design
//
// colorbot extracts dominant colours from images, generates harmonious
// palettes, checks WCAG accessibility and serves all of it over HTTP.
package main

import "github.com/Fifi-Huo/UI-Color-Bot/internal/cli"

func main() {
	cli.Execute()
}
