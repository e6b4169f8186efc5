package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/planora/planora-backend/internal/platform/logger"
)

// JSONCompleter resolves a prompt into a parsed JSON value, with a single
// corrective round trip when the first reply does not parse.
type JSONCompleter interface {
	CompleteJSON(ctx context.Context, prompt string) (any, error)
}

type repairer struct {
	log    *logger.Logger
	client Completer
}

func NewRepairer(client Completer, log *logger.Logger) JSONCompleter {
	return &repairer{
		log:    log.With("service", "JSONRepairer"),
		client: client,
	}
}

// CompleteJSON returns whatever JSON value the model produced, including null
// or a bare number. Semantic validation belongs to the caller. Exactly one
// repair attempt is made, never more: completions are usually either clean
// JSON or nearly-clean JSON, and one "fix it yourself" round trip covers the
// common case without unbounded cost.
func (r *repairer) CompleteJSON(ctx context.Context, prompt string) (any, error) {
	reply, err := r.client.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	value, parseErr := parseJSON(reply)
	if parseErr == nil {
		return value, nil
	}

	r.log.Warn("completion reply is not valid JSON, issuing repair call", "parse_error", parseErr.Error())

	repairPrompt := "Fix the following so it is valid JSON. Reply with only the corrected JSON, nothing else:\n\n" + reply
	repaired, err := r.client.Complete(ctx, repairPrompt)
	if err != nil {
		return nil, err
	}

	value, parseErr = parseJSON(repaired)
	if parseErr != nil {
		return nil, &MalformedResponseError{Raw: repaired, Err: parseErr}
	}
	return value, nil
}

func parseJSON(reply string) (any, error) {
	var value any
	if err := json.Unmarshal([]byte(strings.TrimSpace(reply)), &value); err != nil {
		return nil, err
	}
	return value, nil
}
