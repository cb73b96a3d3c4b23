package content

import (
	"net/http"

	"go.appointy.com/entityinput"
	"go.appointy.com/entityinput/engine"
	"go.appointy.com/entityinput/schemabuilder"
	"go.appointy.com/entityinput/storage"
)

// GetGraphqlServer builds the content model and returns the handler serving
// its mutations from store.
func GetGraphqlServer(store *storage.Store, opts ...engine.Option) (http.Handler, error) {
	sb := schemabuilder.NewSchema()
	RegisterSchema(sb)

	schema, err := sb.Build()
	if err != nil {
		return nil, err
	}

	e, err := engine.New(schema, store, opts...)
	if err != nil {
		return nil, err
	}
	return entityinput.HTTPHandler(e.Schema()), nil
}
