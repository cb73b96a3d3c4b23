package schemabuilder

import (
	"regexp"

	"github.com/iancoleman/strcase"
)

var nameRE = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)

// validName reports whether s is a valid GraphQL name.
func validName(s string) bool {
	return nameRE.MatchString(s)
}

// InternalName converts a GraphQL field name "fieldTags" into the storage
// name "field_tags".
func InternalName(external string) string {
	return strcase.ToSnake(external)
}

// ExternalName converts a storage name "field_tags" into the GraphQL field
// name "fieldTags".
func ExternalName(internal string) string {
	return strcase.ToLowerCamel(internal)
}

// EntityName returns the type name stem for an entity type and bundle, for
// example "NodeArticle" for node/article. Entity types without bundles use
// the entity type alone.
func EntityName(entityType, bundle string) string {
	if bundle == "" || bundle == entityType {
		return strcase.ToCamel(entityType)
	}
	return strcase.ToCamel(entityType + "_" + bundle)
}
