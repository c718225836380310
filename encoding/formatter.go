package encoding

import (
	"strings"

	"github.com/viant/tagly/format/text"
)

// PropertyNameFormatter maps a property name to the key used in encoded maps.
// The same mapping is applied when looking keys up during decode.
type PropertyNameFormatter interface {
	FormatPropertyName(name string) string
}

// PropertyNameFormatterFunc adapts a function to PropertyNameFormatter.
type PropertyNameFormatterFunc func(name string) string

func (f PropertyNameFormatterFunc) FormatPropertyName(name string) string {
	return f(name)
}

var wordSeparators = strings.NewReplacer("-", "_", " ", "_")

// SnakeCaseFormatter renders names in lower snake case:
// "fooBar", "foo-bar" and "foo bar" all become "foo_bar".
type SnakeCaseFormatter struct{}

func (SnakeCaseFormatter) FormatPropertyName(name string) string {
	name = wordSeparators.Replace(name)
	if strings.Contains(name, "_") {
		return strings.ToLower(name)
	}
	return text.DetectCaseFormat(name).Format(name, text.CaseFormatLowerUnderscore)
}

// CamelCaseFormatter renders names in lower camel case:
// "foo_bar", "foo-bar" and "FooBar" all become "fooBar".
type CamelCaseFormatter struct{}

func (CamelCaseFormatter) FormatPropertyName(name string) string {
	name = wordSeparators.Replace(name)
	if strings.Contains(name, "_") {
		return text.CaseFormatLowerUnderscore.Format(strings.ToLower(name), text.CaseFormatLowerCamel)
	}
	return text.DetectCaseFormat(name).Format(name, text.CaseFormatLowerCamel)
}

func formatName(f PropertyNameFormatter, name string) string {
	if f == nil {
		return name
	}
	return f.FormatPropertyName(name)
}
