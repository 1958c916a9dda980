package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/project-intake-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/project-intake-service/internal/domain"
	"github.com/jsamuelsen11/project-intake-service/internal/platform/schema"
)

// maxJSONBodyBytes is the maximum allowed size for a JSON request body (1 MB).
const maxJSONBodyBytes = 1 << 20

const (
	msgInvalidJSON  = "Invalid JSON body"
	msgBodyTooLarge = "Request body too large"
)

// decodeJSONBody decodes the request body as a JSON object. An empty body
// decodes to an empty object. The body is limited to maxJSONBodyBytes.
func decodeJSONBody(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)

	dec := json.NewDecoder(r.Body)

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, bodyError(err)
	}
	if raw == nil {
		// Literal null.
		return nil, domain.BadRequest(msgInvalidJSON)
	}

	// Only whitespace may follow the object.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, bodyError(err)
	}
	return raw, nil
}

func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return domain.BadRequest(msgBodyTooLarge)
	}
	return domain.BadRequest(msgInvalidJSON)
}

// validate applies rs to raw and returns the sanitized values or a
// *domain.ValidationError.
func validate(v *schema.Validator, rs *schema.RuleSet, raw map[string]any) (schema.Values, error) {
	res := v.Validate(rs, raw)
	if err := res.Err(); err != nil {
		return nil, err
	}
	return res.Values(), nil
}

// pathID validates the {id} path parameter with the identifier rule set.
func pathID(v *schema.Validator, rules *dto.ProjectRules, r *http.Request) (string, error) {
	vals, err := validate(v, rules.ID, map[string]any{dto.FieldID: chi.URLParam(r, "id")})
	if err != nil {
		return "", err
	}
	id, _ := vals.String(dto.FieldID)
	return id, nil
}
