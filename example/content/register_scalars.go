package content

import "go.appointy.com/entityinput/schemabuilder"

// RegisterScalars registers the custom scalars. Metatag values are stored as
// given, so Metadata is an opaque scalar.
func RegisterScalars(sb *schemabuilder.Schema) {
	sb.Scalar("Metadata", "Metatag values keyed by tag name.")
}
