package mw

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/conexus/internal/logger"
)

// Stage names one step of the request pipeline.
type Stage string

const (
	StageRecover    Stage = "recover"
	StageNormalize  Stage = "normalize"
	StageDecompress Stage = "decompress"
	StageCompress   Stage = "compress"
	StageRequestID  Stage = "request_id"
	StageTrace      Stage = "trace"
)

// Stages lists every stage, outermost first. Requests traverse them in this
// order and responses in the reverse one.
var Stages = []Stage{
	StageRecover,
	StageNormalize,
	StageDecompress,
	StageCompress,
	StageRequestID,
	StageTrace,
}

const (
	DefaultMaxBodyBytes     int64 = 1 << 20
	DefaultCompressionLevel       = 5
)

// Pipeline configures the stages wrapped around the router.
type Pipeline struct {
	Disabled         map[Stage]bool
	MaxBodyBytes     int64 // decompressed request body cap
	CompressionLevel int
	TraceHeaders     bool // log request and response headers in the trace span
}

// DefaultPipeline enables every stage.
func DefaultPipeline() Pipeline {
	return Pipeline{
		MaxBodyBytes:     DefaultMaxBodyBytes,
		CompressionLevel: DefaultCompressionLevel,
		TraceHeaders:     true,
	}
}

// ParseStages turns stage names (ex: "compress,trace") into a disabled set.
func ParseStages(names []string) (map[Stage]bool, error) {
	disabled := make(map[Stage]bool, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		s := Stage(n)
		if !knownStage(s) {
			return nil, fmt.Errorf("unknown pipeline stage %q", n)
		}
		disabled[s] = true
	}
	return disabled, nil
}

func knownStage(s Stage) bool {
	for _, k := range Stages {
		if k == s {
			return true
		}
	}
	return false
}

// Enabled reports whether s runs.
func (p Pipeline) Enabled(s Stage) bool { return !p.Disabled[s] }

// Middlewares returns the enabled stages in order, ready for chi's Use.
func (p Pipeline) Middlewares(log logger.Logger) []func(http.Handler) http.Handler {
	maxBody := p.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	level := p.CompressionLevel
	if level <= 0 {
		level = DefaultCompressionLevel
	}

	var mws []func(http.Handler) http.Handler
	for _, s := range Stages {
		if !p.Enabled(s) {
			continue
		}
		switch s {
		case StageRecover:
			mws = append(mws, middleware.Recoverer)
		case StageNormalize:
			mws = append(mws, Normalize)
		case StageDecompress:
			mws = append(mws, Decompress(maxBody))
		case StageCompress:
			mws = append(mws, Compress(level))
		case StageRequestID:
			mws = append(mws, RequestID)
		case StageTrace:
			mws = append(mws, Trace(log, p.TraceHeaders))
		}
	}
	return mws
}
