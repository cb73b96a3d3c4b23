package content

import "go.appointy.com/entityinput/schemabuilder"

// Text formats a formatted text field accepts.
const (
	FormatPlainText = "plain_text"
	FormatBasicHTML = "basic_html"
	FormatFullHTML  = "full_html"
)

func RegisterEnums(sb *schemabuilder.Schema) {
	sb.Enum("TextFormat", []string{FormatPlainText, FormatBasicHTML, FormatFullHTML}, "Filter format applied to formatted text.")
}
