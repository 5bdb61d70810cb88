package solarlog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/raterudder/solarlog/pkg/log"
	"github.com/raterudder/solarlog/pkg/types"
)

// Extract walks the snapshot down to the property object and returns one
// update per channel whose key is present, in channel order.
//
// A snapshot without the root or property key yields no updates and no
// error. A key that exists but holds something other than an object, or a
// field value that is null, an object or an array, is an error.
func Extract(ctx context.Context, doc []byte, specs []types.ChannelSpec) ([]types.ChannelUpdate, error) {
	var snapshot map[string]json.RawMessage
	if err := json.Unmarshal(doc, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if snapshot == nil {
		return nil, fmt.Errorf("snapshot is not an object")
	}

	root, ok, err := object(snapshot, RootKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Ctx(ctx).DebugContext(ctx, "snapshot has no root key", slog.String("key", RootKey))
		return nil, nil
	}
	props, ok, err := object(root, PropertiesKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Ctx(ctx).DebugContext(ctx, "snapshot has no properties key", slog.String("key", PropertiesKey))
		return nil, nil
	}

	updates := make([]types.ChannelUpdate, 0, len(specs))
	for _, spec := range specs {
		raw, ok := props[spec.Key]
		if !ok {
			log.Ctx(ctx).DebugContext(
				ctx,
				"field missing from snapshot",
				slog.String("key", spec.Key),
				slog.String("channelID", spec.ChannelID),
			)
			continue
		}
		s, err := rawString(raw)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", spec.Key, err)
		}
		v := Coerce(s, spec.Type)
		if v.Type != spec.Type {
			log.Ctx(ctx).DebugContext(
				ctx,
				"value did not parse, using text",
				slog.String("channelID", spec.ChannelID),
				slog.String("type", spec.Type.String()),
				slog.String("value", s),
			)
		}
		updates = append(updates, types.ChannelUpdate{ChannelID: spec.ChannelID, Value: v})
	}
	return updates, nil
}

// object looks up key in m and decodes it as a JSON object. ok is false when
// the key is absent.
func object(m map[string]json.RawMessage, key string) (map[string]json.RawMessage, bool, error) {
	raw, ok := m[key]
	if !ok {
		return nil, false, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, true, fmt.Errorf("key %s is not an object: %w", key, err)
	}
	if obj == nil {
		return nil, true, fmt.Errorf("key %s is null", key)
	}
	return obj, true, nil
}

// rawString reads a JSON scalar as a string: strings are unquoted, numbers
// and booleans keep their literal text.
func rawString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", fmt.Errorf("empty value")
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[':
		return "", fmt.Errorf("value is not a scalar")
	case 'n':
		return "", fmt.Errorf("value is null")
	default:
		// numbers and booleans
		return string(raw), nil
	}
}
