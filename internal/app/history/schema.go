package history

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/vishwajitjha79-spec/TESSA-AI/internal/domain"
)

// DocumentSchema describes the exported conversation document.
func DocumentSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(&domain.Collection{})
	schema.Title = "Tessa conversation store"

	b, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return b, nil
}
