package content

import "go.appointy.com/entityinput/schemabuilder"

// RegisterSchema registers every type of the example content model.
func RegisterSchema(sb *schemabuilder.Schema) {
	RegisterScalars(sb)
	RegisterEnums(sb)
	RegisterInputs(sb)
}
