package srcom

import (
	"context"
	"encoding/json"
	"fmt"
)

// UserResolver checks that a referenced player account exists. The client
// resolves through the API by default; tests and callers with their own
// user store can substitute an implementation.
type UserResolver interface {
	ResolveUser(ctx context.Context, id string) (bool, error)
}

// Recognized timer kinds.
const (
	TimerRealtime        = "realtime"
	TimerRealtimeNoloads = "realtime_noloads"
	TimerIngame          = "ingame"
)

var timerKinds = map[string]bool{
	TimerRealtime:        true,
	TimerRealtimeNoloads: true,
	TimerIngame:          true,
}

// Run statuses a moderator can set.
const (
	StatusNew      = "new"
	StatusVerified = "verified"
	StatusRejected = "rejected"
)

// runScalarFields maps every recognized scalar submission field to whether
// it must be a boolean; everything else must be a string.
var runScalarFields = map[string]bool{
	"category": false,
	"platform": false,
	"level":    false,
	"date":     false,
	"region":   false,
	"video":    false,
	"comment":  false,
	"splitsio": false,
	"verified": true,
	"emulated": true,
}

var variableValueTypes = map[string]bool{
	"pre-defined":  true,
	"user-defined": true,
}

// SubmitRun validates fields and POSTs a new run. Validation is
// all-or-nothing: the first failed rule returns a *ValidationError and
// nothing is sent. Required fields are category, times and platform.
//
// fields mirrors the API's run document: timer kinds to seconds under
// "times", player records under "players", variable values under
// "variables", plus the scalar fields (level, date, region, video,
// comment, splitsio, verified, emulated).
func (c *Client) SubmitRun(ctx context.Context, fields map[string]any) (json.RawMessage, error) {
	if c.mock != nil {
		c.logger.Debug().Msg("mock mode: run submission skipped")
		return nil, nil
	}

	payload, err := c.buildRunPayload(ctx, fields)
	if err != nil {
		return nil, err
	}
	return c.Post(ctx, "runs", map[string]any{"run": payload})
}

// UpdateRunStatus moves a run to verified, rejected or new. A reason is
// only accepted alongside a rejection; the remote service owns any further
// status transition rules.
func (c *Client) UpdateRunStatus(ctx context.Context, runID, status, reason string) (json.RawMessage, error) {
	if c.mock != nil {
		c.logger.Debug().Str("run_id", runID).Msg("mock mode: status update skipped")
		return nil, nil
	}

	switch status {
	case StatusNew, StatusVerified, StatusRejected:
	default:
		return nil, &ValidationError{
			Kind:   KindInvalidStatus,
			Field:  "status",
			Detail: fmt.Sprintf("unrecognized status %q", status),
		}
	}
	if reason != "" && status != StatusRejected {
		return nil, &ValidationError{
			Kind:   KindInvalidStatus,
			Field:  "reason",
			Detail: "a reason is only valid when rejecting a run",
		}
	}

	body := map[string]any{"status": status}
	if reason != "" {
		body["reason"] = reason
	}
	return c.Put(ctx, "runs/"+runID+"/status", map[string]any{"status": body})
}

// UpdateRunPlayers replaces the player list of a run. Entries follow the
// same rules as submission: rel user with an existing id, or rel guest
// with a name.
func (c *Client) UpdateRunPlayers(ctx context.Context, runID string, players []map[string]any) (json.RawMessage, error) {
	if c.mock != nil {
		c.logger.Debug().Str("run_id", runID).Msg("mock mode: player update skipped")
		return nil, nil
	}

	entries := make([]any, len(players))
	for i, p := range players {
		entries[i] = p
	}
	validated, err := c.validatePlayers(ctx, entries)
	if err != nil {
		return nil, err
	}
	return c.Put(ctx, "runs/"+runID+"/players", map[string]any{"players": validated})
}

// DeleteRun removes a run. There is no undo on the remote side.
func (c *Client) DeleteRun(ctx context.Context, runID string) (json.RawMessage, error) {
	if c.mock != nil {
		c.logger.Debug().Str("run_id", runID).Msg("mock mode: delete skipped")
		return nil, nil
	}
	return c.Delete(ctx, "runs/"+runID)
}

// buildRunPayload applies the submission rules in order and returns the
// payload to send, or the first violation.
func (c *Client) buildRunPayload(ctx context.Context, fields map[string]any) (map[string]any, error) {
	for _, required := range []string{"category", "times", "platform"} {
		if _, ok := fields[required]; !ok {
			return nil, &ValidationError{
				Kind:   KindMissingField,
				Field:  required,
				Detail: "field is mandatory for run submission",
			}
		}
	}

	payload := make(map[string]any, len(fields))

	times, ok := fields["times"].(map[string]any)
	if !ok {
		return nil, &ValidationError{
			Kind:   KindInvalidFieldType,
			Field:  "times",
			Detail: "times must map timer kinds to seconds",
		}
	}
	for kind, value := range times {
		if !timerKinds[kind] {
			return nil, &ValidationError{
				Kind:   KindInvalidTimerType,
				Field:  kind,
				Detail: "timer kind must be realtime, realtime_noloads or ingame",
			}
		}
		if !isNumeric(value) {
			return nil, &ValidationError{
				Kind:   KindInvalidTimerValue,
				Field:  kind,
				Detail: fmt.Sprintf("%v is not a number of seconds", value),
			}
		}
	}
	payload["times"] = times

	if raw, ok := fields["players"]; ok {
		entries, ok := raw.([]any)
		if !ok {
			return nil, &ValidationError{
				Kind:   KindInvalidFieldType,
				Field:  "players",
				Detail: "players must be a list of player records",
			}
		}
		validated, err := c.validatePlayers(ctx, entries)
		if err != nil {
			return nil, err
		}
		payload["players"] = validated
	}

	if raw, ok := fields["variables"]; ok {
		validated, err := validateVariables(raw)
		if err != nil {
			return nil, err
		}
		payload["variables"] = validated
	}

	for name, value := range fields {
		switch name {
		case "times", "players", "variables":
			continue
		}
		wantBool, known := runScalarFields[name]
		if !known {
			return nil, &ValidationError{
				Kind:   KindUnknownField,
				Field:  name,
				Detail: "field is not part of a run submission",
			}
		}
		if value == nil {
			continue
		}
		if wantBool {
			if _, ok := value.(bool); !ok {
				return nil, &ValidationError{
					Kind:   KindInvalidFieldType,
					Field:  name,
					Detail: "value must be a boolean",
				}
			}
		} else {
			if _, ok := value.(string); !ok {
				return nil, &ValidationError{
					Kind:   KindInvalidFieldType,
					Field:  name,
					Detail: "value must be a string",
				}
			}
		}
		payload[name] = value
	}

	return payload, nil
}

// validatePlayers checks each player record and resolves user IDs through
// the configured lookup. Resolver transport failures propagate as-is; a
// clean "does not exist" answer is a validation failure.
func (c *Client) validatePlayers(ctx context.Context, entries []any) ([]map[string]any, error) {
	validated := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		record, ok := toRecord(entry)
		if !ok {
			return nil, &ValidationError{
				Kind:   KindInvalidPlayerKey,
				Detail: "player entry must be a {rel, id|name} record",
			}
		}

		for key := range record {
			switch key {
			case "rel", "id", "name":
			default:
				return nil, &ValidationError{
					Kind:   KindInvalidPlayerKey,
					Field:  key,
					Detail: "recognized player keys are rel, id and name",
				}
			}
		}

		rel, _ := record["rel"].(string)
		switch rel {
		case "user":
			id, _ := record["id"].(string)
			if id == "" {
				return nil, &ValidationError{
					Kind:   KindInvalidPlayerKey,
					Field:  "id",
					Detail: "rel user requires an id",
				}
			}
			exists, err := c.resolver.ResolveUser(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve player %s: %w", id, err)
			}
			if !exists {
				return nil, &ValidationError{
					Kind:   KindNoPlayerFound,
					Field:  "id",
					Detail: fmt.Sprintf("no user with id %q", id),
				}
			}
			validated = append(validated, map[string]any{"rel": "user", "id": id})
		case "guest":
			name, _ := record["name"].(string)
			if name == "" {
				return nil, &ValidationError{
					Kind:   KindInvalidPlayerKey,
					Field:  "name",
					Detail: "rel guest requires a name",
				}
			}
			validated = append(validated, map[string]any{"rel": "guest", "name": name})
		default:
			return nil, &ValidationError{
				Kind:   KindInvalidPlayerKey,
				Field:  "rel",
				Detail: fmt.Sprintf("rel must be user or guest, got %q", rel),
			}
		}
	}
	return validated, nil
}

func validateVariables(raw any) (map[string]any, error) {
	variables, ok := raw.(map[string]any)
	if !ok {
		return nil, &ValidationError{
			Kind:   KindInvalidFieldType,
			Field:  "variables",
			Detail: "variables must map variable IDs to value records",
		}
	}

	validated := make(map[string]any, len(variables))
	for id, rawValue := range variables {
		record, ok := toRecord(rawValue)
		if !ok {
			return nil, &ValidationError{
				Kind:   KindInvalidVariableKey,
				Field:  id,
				Detail: "variable value must be a {type, value} record",
			}
		}
		for key := range record {
			switch key {
			case "type", "value":
			default:
				return nil, &ValidationError{
					Kind:   KindInvalidVariableKey,
					Field:  key,
					Detail: "recognized variable value keys are type and value",
				}
			}
		}
		if rawType, ok := record["type"]; ok {
			valueType, sok := rawType.(string)
			if !sok || !variableValueTypes[valueType] {
				return nil, &ValidationError{
					Kind:   KindInvalidVariableKey,
					Field:  "type",
					Detail: "variable value type must be pre-defined or user-defined",
				}
			}
		}
		validated[id] = record
	}
	return validated, nil
}

func toRecord(v any) (map[string]any, bool) {
	switch rec := v.(type) {
	case map[string]any:
		return rec, true
	default:
		return nil, false
	}
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return true
	}
	return false
}
