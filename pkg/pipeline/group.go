package pipeline

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Group partitions assets into independently built bundles.
type Group int

const (
	// NoGroup means unrestricted when used as a filter restriction and
	// "every group" when used as an accessor argument.
	NoGroup Group = iota
	Scripts
	Styles
)

// Groups lists the buildable groups in build order.
var Groups = []Group{Styles, Scripts}

// String returns the manifest key of the group.
func (g Group) String() string {
	switch g {
	case Scripts:
		return "scripts"
	case Styles:
		return "styles"
	default:
		return "none"
	}
}

// Extension returns the artifact extension of the group.
func (g Group) Extension() string {
	switch g {
	case Scripts:
		return "js"
	case Styles:
		return "css"
	default:
		return ""
	}
}

// ParseGroup accepts the names users tend to type for each group.
func ParseGroup(s string) (Group, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scripts", "script", "javascripts", "javascript", "js":
		return Scripts, nil
	case "styles", "style", "stylesheets", "stylesheet", "css":
		return Styles, nil
	default:
		return NoGroup, fmt.Errorf("unknown group %q (want scripts or styles)", s)
	}
}

// Extensions configures asset classification. An extension listed under
// Scripts classifies the asset as a script; everything else is a style.
type Extensions struct {
	Scripts []string
}

// DefaultExtensions returns the built-in classification.
func DefaultExtensions() Extensions {
	return Extensions{
		Scripts: []string{"js", "coffee"},
	}
}

// Classify returns the group for a path or URL.
func (e Extensions) Classify(locator string) Group {
	ext := extensionOf(locator)
	for _, s := range e.Scripts {
		if strings.EqualFold(strings.TrimPrefix(s, "."), ext) {
			return Scripts
		}
	}
	return Styles
}

func extensionOf(locator string) string {
	p := locator
	if isRemoteLocator(locator) {
		target := locator
		if strings.HasPrefix(target, "//") {
			target = "https:" + target
		}
		if u, err := url.Parse(target); err == nil {
			p = u.Path
		}
		return strings.TrimPrefix(path.Ext(p), ".")
	}
	return strings.TrimPrefix(filepath.Ext(p), ".")
}
