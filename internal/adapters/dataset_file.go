package adapters

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"

	"bods-validate/internal/core"
	"bods-validate/internal/ports"
)

// DatasetFileAdapter reads datasets from a filesystem.
type DatasetFileAdapter struct {
	Fs afero.Fs
}

func NewDatasetFileAdapter(fs afero.Fs) DatasetFileAdapter {
	return DatasetFileAdapter{Fs: fs}
}

func (a DatasetFileAdapter) Load(ctx context.Context, path string) ([]byte, error) {
	data, err := afero.ReadFile(a.Fs, path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read dataset: " + path).
			WithCause(err)
	}
	log.Ctx(ctx).Debug().Str("path", path).Int("bytes", len(data)).Msg("dataset loaded")
	return data, nil
}

// LoadSample decodes the top-level array one statement at a time and stops
// reading once the quota of every statement type is full.
func (a DatasetFileAdapter) LoadSample(ctx context.Context, path string, limit int) ([]byte, bool, error) {
	if limit <= 0 {
		return nil, false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("sample size must be positive")
	}
	file, err := a.Fs.Open(path)
	if err != nil {
		return nil, false, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to open dataset: " + path).
			WithCause(err)
	}
	defer file.Close()

	decoder := json.NewDecoder(bufio.NewReader(file))
	token, err := decoder.Token()
	if err != nil {
		return nil, false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("dataset is not valid JSON: " + path).
			WithCause(err)
	}
	if delim, ok := token.(json.Delim); !ok || delim != '[' {
		return nil, false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("sample mode needs a top-level array: " + path)
	}

	quota := core.NewSampleQuota(limit)
	var out bytes.Buffer
	out.WriteByte('[')
	kept, seen := 0, 0
	truncated := false
	for decoder.More() {
		if err := ctx.Err(); err != nil {
			return nil, false, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("dataset sampling canceled").
				WithCause(err)
		}
		if quota.Exhausted() {
			truncated = true
			break
		}
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			return nil, false, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("dataset is not valid JSON: " + path).
				WithCause(err)
		}
		seen++
		if !quota.Offer(core.ClassifyStatement(gjson.ParseBytes(raw))) {
			truncated = true
			continue
		}
		if kept > 0 {
			out.WriteByte(',')
		}
		out.Write(raw)
		kept++
	}
	out.WriteByte(']')

	log.Ctx(ctx).Debug().
		Str("path", path).
		Int("limit", limit).
		Int("read", seen).
		Int("kept", kept).
		Bool("truncated", truncated).
		Msg("dataset sampled")
	return out.Bytes(), truncated, nil
}

var _ ports.DatasetLoaderPort = DatasetFileAdapter{}
