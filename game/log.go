package game

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
)

// LevelTrace is the level used for per-step chain tracing, below slog.LevelDebug.
const LevelTrace = slog.Level(-8)

// Trace logs msg at LevelTrace with the parameters rendered in insertion order.
func Trace(log *slog.Logger, msg string, params *orderedmap.OrderedMap[string, any]) {
	if log == nil || !log.Enabled(context.Background(), LevelTrace) {
		return
	}
	log.Log(context.Background(), LevelTrace, msg+" "+OrderedMapToString(params))
}

// OrderedMapToString renders the map as "[k1=v1 k2=v2]".
func OrderedMapToString(data *orderedmap.OrderedMap[string, any]) string {
	if data == nil {
		return "[]"
	}

	var b strings.Builder
	b.WriteByte('[')
	for i, key := range data.Keys() {
		if i > 0 {
			b.WriteByte(' ')
		}
		v, _ := data.Get(key)
		if f, ok := v.(float32); ok {
			v = Round32(f, 3)
		}
		fmt.Fprintf(&b, "%s=%v", key, v)
	}
	b.WriteByte(']')
	return b.String()
}
