package extract

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/ticoet/geoscan/internal/model"
)

// unknownBlockType labels JSON-LD blocks without a usable @type.
const unknownBlockType = "Unknown"

// decodeJSONLDBlocks parses each raw script body as JSON. Blocks that
// fail to decode are skipped; a broken block never aborts extraction.
func decodeJSONLDBlocks(raw []string, logger *slog.Logger) []model.JSONLDBlock {
	blocks := make([]model.JSONLDBlock, 0, len(raw))
	for _, body := range raw {
		var data any
		if err := json.Unmarshal([]byte(body), &data); err != nil {
			logger.Debug("skipping malformed JSON-LD block", "error", err)
			continue
		}
		blocks = append(blocks, model.JSONLDBlock{
			Type: blockType(data),
			Data: data,
		})
	}
	return blocks
}

// blockType derives the display type of a decoded block: the declared
// @type, or the comma-joined unique item types of a @graph collection.
func blockType(data any) string {
	obj, ok := data.(map[string]any)
	if !ok {
		return unknownBlockType
	}

	if graph, ok := obj["@graph"].([]any); ok {
		seen := make(map[string]bool)
		types := make([]string, 0, len(graph))
		for _, item := range graph {
			t := declaredType(item)
			if t != "" && !seen[t] {
				seen[t] = true
				types = append(types, t)
			}
		}
		if len(types) > 0 {
			return strings.Join(types, ", ")
		}
		return unknownBlockType
	}

	if t := declaredType(obj); t != "" {
		return t
	}
	return unknownBlockType
}

// declaredType extracts the @type of one JSON-LD item. A @type may be
// a string or an array of strings; for arrays the first entry wins.
func declaredType(item any) string {
	obj, ok := item.(map[string]any)
	if !ok {
		return ""
	}
	switch t := obj["@type"].(type) {
	case string:
		return t
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

// blockItems flattens a decoded block into its item list: the @graph
// members when present, the block itself otherwise.
func blockItems(data any) []map[string]any {
	obj, ok := data.(map[string]any)
	if !ok {
		return nil
	}
	if graph, ok := obj["@graph"].([]any); ok {
		items := make([]map[string]any, 0, len(graph))
		for _, item := range graph {
			if m, ok := item.(map[string]any); ok {
				items = append(items, m)
			}
		}
		return items
	}
	return []map[string]any{obj}
}

// stringField returns a top-level string field of a JSON-LD item, or
// empty string when absent or not a string.
func stringField(item map[string]any, key string) string {
	s, _ := item[key].(string)
	return s
}
