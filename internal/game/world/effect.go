package world

import "go.uber.org/zap"

// Effect is a cosmetic effect for the presentation layer. The server never
// renders it.
type Effect struct {
	Name        string
	CharacterID string
	Area        string
	// Source is the spell or pickup definition that produced the effect.
	Source string
}

// EffectSink receives cosmetic effects. Play is called with the world lock
// held and must not call back into the World.
type EffectSink interface {
	Play(e Effect)
}

// LogEffectSink logs every effect at debug level.
type LogEffectSink struct {
	logger *zap.Logger
}

// NewLogEffectSink returns an EffectSink writing to logger.
func NewLogEffectSink(logger *zap.Logger) *LogEffectSink {
	return &LogEffectSink{logger: logger}
}

// Play logs e.
func (s *LogEffectSink) Play(e Effect) {
	s.logger.Debug("effect",
		zap.String("effect", e.Name),
		zap.String("character", e.CharacterID),
		zap.String("area", e.Area),
		zap.String("source", e.Source),
	)
}
