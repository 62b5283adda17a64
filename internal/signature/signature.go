// Package signature decomposes dex-style member signatures and namespace
// patterns into typed path elements.
//
// A full member signature looks like:
//
//	Ljava/lang/Character$UnicodeScript;->of(I)Ljava/lang/Character$UnicodeScript;
//
// and decomposes into:
//
//	package:java
//	package:lang
//	class:Character
//	class:UnicodeScript
//	member:of(I)Ljava/lang/Character$UnicodeScript;
//
// Patterns may instead end in a wildcard: "java/lang/*" selects the lang
// package itself, "java/**" selects java and every sub-package.
package signature

import (
	"strings"
	"unicode"
)

// Kind identifies what a path element names.
type Kind string

const (
	KindPackage  Kind = "package"
	KindClass    Kind = "class"
	KindMember   Kind = "member"
	KindWildcard Kind = "wildcard"
)

// Element is one typed step of a decomposed signature. Elements are
// comparable and are used directly as child keys in the trie.
type Element struct {
	Kind  Kind
	Value string
}

// ParseError reports a malformed signature or pattern. It always carries the
// full offending text so the bad record can be located without extra logging.
type ParseError struct {
	Signature string
	Reason    string
}

func (e *ParseError) Error() string {
	return "invalid signature '" + e.Signature + "': " + e.Reason
}

// ParseElements splits a signature or pattern into its ordered elements:
// zero or more packages, then either a single wildcard or one or more class
// names (outermost first) optionally followed by one member.
func ParseElements(sig string) ([]Element, error) {
	// Remove the leading L sentinel from class-name form.
	text := strings.TrimPrefix(sig, "L")

	// Separate the qualified class name from the member signature, if any.
	qualified, member, hasMember := strings.Cut(text, ";->")

	parts := strings.Split(qualified, "/")
	last := parts[len(parts)-1]

	var elements []Element
	for _, pkg := range parts[:len(parts)-1] {
		elements = append(elements, Element{KindPackage, pkg})
	}

	switch {
	case strings.Contains(last, "*"):
		if last != "*" && last != "**" {
			return nil, &ParseError{sig, "invalid wildcard '" + last + "'"}
		}
		// Cannot specify a wildcard and target a specific member.
		if hasMember {
			return nil, &ParseError{sig,
				"contains wildcard '" + last + "' and member signature '" + member + "'"}
		}
		elements = append(elements, Element{KindWildcard, last})
	case isLower(last):
		return nil, &ParseError{sig, "last element '" + last +
			"' is lower case but should be an upper case class name or wildcard"}
	default:
		// Split the class name into outer and nested classes. A "$$" run in
		// synthetic class names produces an empty class element, which is
		// preserved so the selector round-trips.
		for _, cls := range strings.Split(strings.TrimSuffix(last, ";"), "$") {
			elements = append(elements, Element{KindClass, cls})
		}
		if hasMember {
			elements = append(elements, Element{KindMember, member})
		}
	}
	return elements, nil
}

// ElementsToSelector reassembles elements into the canonical path form:
// packages joined with "/", nested classes with "$", a trailing member with
// ";->". It is the structural inverse of ParseElements minus the leading L.
func ElementsToSelector(elements []Element) string {
	var sb strings.Builder
	var prev Kind
	for i, e := range elements {
		if i > 0 {
			switch e.Kind {
			case KindClass:
				if prev == KindClass {
					sb.WriteString("$")
				} else {
					sb.WriteString("/")
				}
			case KindMember:
				sb.WriteString(";->")
			default: // package or wildcard follows a package
				sb.WriteString("/")
			}
		}
		sb.WriteString(e.Value)
		prev = e.Kind
	}
	return sb.String()
}

// isLower mirrors Python's str.islower: true when the string contains at
// least one cased rune and none of its cased runes are upper case. Package
// names are all lower case; a trailing one means the signature is missing
// its class part.
func isLower(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsLower(r) {
			cased = true
		}
	}
	return cased
}
