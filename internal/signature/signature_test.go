package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pkg(v string) Element      { return Element{KindPackage, v} }
func cls(v string) Element      { return Element{KindClass, v} }
func member(v string) Element   { return Element{KindMember, v} }
func wildcard(v string) Element { return Element{KindWildcard, v} }

func TestParseElements(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		elements  []Element
		// selector is the expected ElementsToSelector output; when the
		// signature carries a leading L the selector omits it.
		selector string
	}{
		{
			name:      "basic member",
			signature: "Ljava/lang/Object;->hashCode()I",
			elements: []Element{
				pkg("java"), pkg("lang"), cls("Object"), member("hashCode()I"),
			},
			selector: "java/lang/Object;->hashCode()I",
		},
		{
			name:      "nested inner classes",
			signature: "Ljava/lang/ProcessBuilder$Redirect$1;-><init>()V",
			elements: []Element{
				pkg("java"), pkg("lang"),
				cls("ProcessBuilder"), cls("Redirect"), cls("1"),
				member("<init>()V"),
			},
			selector: "java/lang/ProcessBuilder$Redirect$1;-><init>()V",
		},
		{
			name:      "double dollar synthetic class",
			signature: "Ljava/lang/CharSequence$$ExternalSyntheticLambda0;-><init>(Ljava/lang/CharSequence;)V",
			elements: []Element{
				pkg("java"), pkg("lang"),
				cls("CharSequence"), cls(""), cls("ExternalSyntheticLambda0"),
				member("<init>(Ljava/lang/CharSequence;)V"),
			},
			selector: "java/lang/CharSequence$$ExternalSyntheticLambda0;-><init>(Ljava/lang/CharSequence;)V",
		},
		{
			name:      "no member",
			signature: "Ljava/lang/CharSequence$$ExternalSyntheticLambda0",
			elements: []Element{
				pkg("java"), pkg("lang"),
				cls("CharSequence"), cls(""), cls("ExternalSyntheticLambda0"),
			},
			selector: "java/lang/CharSequence$$ExternalSyntheticLambda0",
		},
		{
			name:      "non-standard class name",
			signature: "Ljavax/crypto/extObjectInputStream",
			elements: []Element{
				pkg("javax"), pkg("crypto"), cls("extObjectInputStream"),
			},
			selector: "javax/crypto/extObjectInputStream",
		},
		{
			name:      "package wildcard",
			signature: "java/lang/*",
			elements:  []Element{pkg("java"), pkg("lang"), wildcard("*")},
			selector:  "java/lang/*",
		},
		{
			name:      "recursive wildcard",
			signature: "java/lang/**",
			elements:  []Element{pkg("java"), pkg("lang"), wildcard("**")},
			selector:  "java/lang/**",
		},
		{
			name:      "bare wildcard",
			signature: "*",
			elements:  []Element{wildcard("*")},
			selector:  "*",
		},
		{
			name:      "bare recursive wildcard",
			signature: "**",
			elements:  []Element{wildcard("**")},
			selector:  "**",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elements, err := ParseElements(tt.signature)
			require.NoError(t, err)
			assert.Equal(t, tt.elements, elements)
			assert.Equal(t, tt.selector, ElementsToSelector(elements))
		})
	}
}

func TestParseElementsErrors(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		reason    string
	}{
		{
			name:      "lower case terminal segment",
			signature: "java/lang",
			reason:    "last element 'lang' is lower case but should be an upper case class name or wildcard",
		},
		{
			name:      "invalid wildcard",
			signature: "Ljava/lang/Class*",
			reason:    "invalid wildcard 'Class*'",
		},
		{
			name:      "wildcard with member",
			signature: "Ljava/lang/*;->hashCode()I",
			reason:    "contains wildcard '*' and member signature 'hashCode()I'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseElements(tt.signature)
			require.Error(t, err)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.signature, perr.Signature)
			assert.Contains(t, err.Error(), tt.reason)
			// The offending text must be in the message itself.
			assert.Contains(t, err.Error(), tt.signature)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	signatures := []string{
		"Ljava/lang/Object;->hashCode()I",
		"Ljava/lang/Character$UnicodeScript;->of(I)Ljava/lang/Character$UnicodeScript;",
		"java/util/**",
		"*",
	}
	for _, sig := range signatures {
		elements, err := ParseElements(sig)
		require.NoError(t, err)
		again, err := ParseElements("L" + ElementsToSelector(elements))
		require.NoError(t, err)
		assert.Equal(t, elements, again, "round trip of %s", sig)
	}
}
