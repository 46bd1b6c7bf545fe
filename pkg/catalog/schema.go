package catalog

import (
	"bytes"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Catalog listings must be arrays of objects with a non-empty string
// name. Extra fields are allowed; the endpoint adds sizes and dates we
// don't care about.
const catalogSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": { "type": "string", "minLength": 1 }
		}
	}
}`

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(catalogSchema))
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("catalog.json", doc); err != nil {
		return nil, err
	}
	return compiler.Compile("catalog.json")
})

// ValidateCatalog checks a catalog payload against the expected shape
// without decoding it into entries. Used in strict mode.
func ValidateCatalog(data []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return &ParseError{Index: -1, Err: err}
	}
	if err := schema.Validate(instance); err != nil {
		return &ParseError{Index: -1, Err: err}
	}
	return nil
}
