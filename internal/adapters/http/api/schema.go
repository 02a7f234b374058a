package api

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schemas check the JSON shape of request bodies. Range and presence rules
// stay in the domain validator so every entry point enforces them.
//
//go:embed schemas/*.json
var schemaFS embed.FS

type requestSchemas struct {
	candidate *gojsonschema.Schema
	batch     *gojsonschema.Schema
}

func compileSchemas() (requestSchemas, error) {
	candidate, err := schemaFS.ReadFile("schemas/candidate.json")
	if err != nil {
		return requestSchemas{}, fmt.Errorf("read candidate schema: %w", err)
	}
	batch, err := schemaFS.ReadFile("schemas/batch.json")
	if err != nil {
		return requestSchemas{}, fmt.Errorf("read batch schema: %w", err)
	}

	c, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(candidate))
	if err != nil {
		return requestSchemas{}, fmt.Errorf("candidate schema: %w", err)
	}

	sl := gojsonschema.NewSchemaLoader()
	if err := sl.AddSchemas(gojsonschema.NewBytesLoader(candidate)); err != nil {
		return requestSchemas{}, fmt.Errorf("register candidate schema: %w", err)
	}
	b, err := sl.Compile(gojsonschema.NewBytesLoader(batch))
	if err != nil {
		return requestSchemas{}, fmt.Errorf("batch schema: %w", err)
	}
	return requestSchemas{candidate: c, batch: b}, nil
}

// check validates body against s. Errors wrap ErrBadRequest.
func check(s *gojsonschema.Schema, body []byte) error {
	result, err := s.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: malformed JSON: %w", ErrBadRequest, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", ErrBadRequest, strings.Join(errs, "; "))
	}
	return nil
}
