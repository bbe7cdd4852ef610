package main

import (
	"context"
	"strings"

	"github.com/spf13/viper"

	"github.com/quailyquaily/warden/engine"
	"github.com/quailyquaily/warden/internal/pathutil"
)

func engineFromViper(ctx context.Context) (*engine.Engine, error) {
	log := newLogger()

	store, err := openStore(ctx)
	if err != nil {
		return nil, err
	}

	opts := []engine.Option{engine.WithLogger(log)}

	jsonlPath := strings.TrimSpace(viper.GetString("engine.audit.jsonl_path"))
	if jsonlPath != "" {
		jsonlPath = pathutil.ExpandHomePath(jsonlPath)
		sink, err := engine.NewJSONLAuditSink(jsonlPath, viper.GetInt64("engine.audit.rotate_max_bytes"))
		if err != nil {
			log.Warn("audit_sink_error", "error", err.Error())
		} else {
			opts = append(opts, engine.WithAuditSink(sink))
		}
	}

	eng, err := engine.New(store, opts...)
	if err != nil {
		return nil, err
	}
	if viper.GetBool("engine.seed_default_rules") {
		if err := eng.EnsureDefaultRules(ctx); err != nil {
			return nil, err
		}
	}
	return eng, nil
}
