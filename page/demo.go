package page

import (
	_ "embed"
	"strings"
)

//go:embed demo.html
var demoHTML string

// OpenDemo opens the built-in board and palette page.
func OpenDemo(opts ...Option) (*Page, error) {
	return Open("demo.html", strings.NewReader(demoHTML), opts...)
}
