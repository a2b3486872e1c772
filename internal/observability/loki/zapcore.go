package loki

import (
	"go.uber.org/zap/zapcore"
)

// core adapts Client into a zapcore.Core so application logs can be
// shipped to Loki alongside the normal zap console/file sinks,
// without the Coordinator or its stages knowing Loki exists.
type core struct {
	zapcore.LevelEnabler
	encoder zapcore.Encoder
	client  *Client
	fields  []zapcore.Field
}

// NewCore wraps client as an additional zap sink at level enabler lvl.
func NewCore(client *Client, lvl zapcore.LevelEnabler) zapcore.Core {
	encoderCfg := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "ts",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}
	return &core{
		LevelEnabler: lvl,
		encoder:      zapcore.NewJSONEncoder(encoderCfg),
		client:       client,
	}
}

func (c *core) With(fields []zapcore.Field) zapcore.Core {
	return &core{
		LevelEnabler: c.LevelEnabler,
		encoder:      c.encoder,
		client:       c.client,
		fields:       append(append([]zapcore.Field{}, c.fields...), fields...),
	}
}

func (c *core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.encoder.EncodeEntry(ent, append(append([]zapcore.Field{}, c.fields...), fields...))
	if err != nil {
		return err
	}
	line := buf.String()
	buf.Free()

	return c.client.Push(Batch{Entries: []Entry{{
		Timestamp: ent.Time,
		Line:      line,
		Labels:    map[string]string{"level": ent.Level.String()},
	}}})
}

func (c *core) Sync() error { return nil }
