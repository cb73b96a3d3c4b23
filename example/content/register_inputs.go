package content

import "go.appointy.com/entityinput/schemabuilder"

// RegisterArticleInput registers the input type of node/article. Field
// storage names follow the field_ prefix convention; base fields keep their
// own names.
func RegisterArticleInput(sb *schemabuilder.Schema) {
	input := sb.EntityInput("NodeArticleInput", "node", "article", "Input for article nodes.")

	input.Field("title", "title", "String!", schemabuilder.FieldDesc("The article headline."))
	input.Field("body", "body", "TextWithSummaryInput")
	input.Field("tags", "field_tags", "[EntityReferenceInput!]", schemabuilder.FieldDesc("Taxonomy terms."))
	input.Field("image", "field_image", "ImageInput")
	input.Field("promote", "promote", "Boolean")
	input.Field("sticky", "sticky", "Boolean", schemabuilder.Deprecated("Use promote."))
	input.Field("published", "field_published", "Timestamp")
	input.Field("metatags", "field_metatags", "Metadata")
}

// RegisterPageInput registers the input type of node/page.
func RegisterPageInput(sb *schemabuilder.Schema) {
	input := sb.EntityInput("NodePageInput", "node", "page", "Input for basic pages.")

	input.Field("title", "title", "String!")
	input.Field("body", "body", "TextWithSummaryInput")
}

// RegisterFieldInputs registers the input types of the field types the
// entity inputs use. Their fields name the field type's properties.
func RegisterFieldInputs(sb *schemabuilder.Schema) {
	text := sb.FieldInput("TextWithSummaryInput", "Formatted text with an optional summary.")
	text.Field("value", "value", "String!")
	text.Field("summary", "summary", "String")
	text.Field("format", "format", "TextFormat")

	ref := sb.FieldInput("EntityReferenceInput", "A reference to another entity.")
	ref.Field("targetId", "target_id", "ID!")

	image := sb.FieldInput("ImageInput", "An uploaded image.")
	image.Field("targetId", "target_id", "ID!")
	image.Field("alt", "alt", "String")
	image.Field("title", "title", "String")
	image.Field("width", "width", "Int")
	image.Field("height", "height", "Int")
}

func RegisterInputs(sb *schemabuilder.Schema) {
	RegisterArticleInput(sb)
	RegisterPageInput(sb)
	RegisterFieldInputs(sb)
}
