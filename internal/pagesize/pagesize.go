// Package pagesize maps page-size tokens ("A4", "Letter", ...) to point
// dimensions. The catalogue ships embedded so lookups never touch disk.
package pagesize

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed pagesizes.yaml
var catalogueYAML []byte

// ErrUnknownSize is wrapped into lookup failures for unknown tokens.
var ErrUnknownSize = fmt.Errorf("unknown page size")

// Size is a page dimension in points, portrait orientation.
type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type catalogue struct {
	Sizes map[string]Size `yaml:"sizes"`
}

var sizes map[string]Size

func init() {
	var c catalogue
	if err := yaml.Unmarshal(catalogueYAML, &c); err != nil {
		// Embedded file, cannot fail for users; a broken build should
		// surface immediately.
		panic("failed to unmarshal embedded pagesizes.yaml: " + err.Error())
	}
	sizes = c.Sizes
}

// Lookup resolves a page-size token, case-insensitively.
func Lookup(token string) (Size, error) {
	for name, s := range sizes {
		if strings.EqualFold(name, token) {
			return s, nil
		}
	}
	return Size{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownSize, token, strings.Join(Tokens(), ", "))
}

// Tokens returns the known page-size tokens in stable order.
func Tokens() []string {
	names := make([]string, 0, len(sizes))
	for name := range sizes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
