package vectorstore

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const emptyMetadata = "{}"

func encodeMetadata(ctx context.Context, md map[string]string) string {
	if len(md) == 0 {
		return emptyMetadata
	}

	raw, err := json.Marshal(md)
	if err != nil {
		ctxzap.Warn(ctx, "failed to encode segment metadata, storing empty object", zap.Error(err))
		return emptyMetadata
	}
	return string(raw)
}

// decodeMetadata never fails: unreadable metadata becomes an empty map.
// Non-string values written by other clients are kept in their JSON form.
func decodeMetadata(ctx context.Context, raw string) map[string]string {
	md := map[string]string{}
	if strings.TrimSpace(raw) == "" {
		return md
	}

	var values map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		ctxzap.Warn(ctx, "failed to decode segment metadata, using empty map", zap.Error(err))
		return md
	}

	for k, v := range values {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			md[k] = s
			continue
		}
		md[k] = string(v)
	}
	return md
}
