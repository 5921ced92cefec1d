package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/kaptinlin/jsonschema"

	"launchpad/internal/domain"
)

// maxBodySize caps setup request bodies. The largest legitimate body is the
// env var map, a few kilobytes at most.
const maxBodySize = 64 << 10

// Body schemas check JSON types only. Presence is left to the use cases so
// that their required-field messages reach the wizard unchanged.
var (
	pushSchema = mustCompile(`{
		"type": "object",
		"properties": {
			"githubToken": {"type": "string"},
			"repoName": {"type": "string"},
			"isPrivate": {"type": "boolean"}
		}
	}`)
	authSchema = mustCompile(`{
		"type": "object",
		"properties": {
			"publishableKey": {"type": "string"},
			"secretKey": {"type": "string"}
		}
	}`)
	databaseSchema = mustCompile(`{
		"type": "object",
		"properties": {
			"url": {"type": "string"},
			"publishableKey": {"type": "string"},
			"secretKey": {"type": "string"}
		}
	}`)
	envSchema = mustCompile(`{
		"type": "object",
		"properties": {
			"envVars": {
				"type": "object",
				"additionalProperties": {"type": "string"}
			}
		}
	}`)
)

func mustCompile(src string) *jsonschema.Schema {
	schema, err := jsonschema.NewCompiler().Compile([]byte(src))
	if err != nil {
		panic(fmt.Sprintf("gateway: invalid body schema: %v", err))
	}
	return schema
}

// decodeBody reads the request body, checks it against schema and decodes it
// into out. Failures are ErrInvalidInput with a user-facing detail.
func decodeBody(r *http.Request, schema *jsonschema.Schema, out any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return domain.NewDomainError("gateway.decodeBody", domain.ErrInvalidInput, "Could not read request body")
	}
	if len(data) > maxBodySize {
		return domain.NewDomainError("gateway.decodeBody", domain.ErrInvalidInput, "Request body is too large")
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.NewDomainError("gateway.decodeBody", domain.ErrInvalidInput, "Request body must be JSON")
	}
	if result := schema.Validate(doc); !result.IsValid() {
		return domain.NewDomainError("gateway.decodeBody", domain.ErrInvalidInput, "Request body has the wrong shape")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return domain.NewDomainError("gateway.decodeBody", domain.ErrInvalidInput, "Request body has the wrong shape")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}
