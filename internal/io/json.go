// Copyright 2025 Nimbus Identity Ltd.
// SPDX-License-Identifier: AGPL-3.0

package io

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/nimbusid/usersync/internal/logging"
	"github.com/nimbusid/usersync/pkg/principal"
)

var (
	_ ReaderInterface = (*JSONReader)(nil)
	_ WriterInterface = (*JSONWriter)(nil)
)

// JSONReader loads a flat array of principal records.
type JSONReader struct {
	source io.Reader
	logger logging.LoggerInterface
}

func NewJSONReader(source io.Reader, logger logging.LoggerInterface) *JSONReader {
	r := new(JSONReader)

	r.source = source
	r.logger = logger

	return r
}

func (r *JSONReader) Read(ctx context.Context) (*principal.UsersAndGroups, error) {
	data, err := io.ReadAll(r.source)
	if err != nil {
		return nil, err
	}

	ugs := principal.NewUsersAndGroups()
	warnings, err := ugs.LoadFromJSON(data)
	for _, w := range warnings {
		r.logger.Warn(w)
	}
	if err != nil {
		return nil, err
	}
	return ugs, nil
}

// JSONWriter renders the container as an indented record array.
type JSONWriter struct {
	sink io.Writer
}

func NewJSONWriter(sink io.Writer) *JSONWriter {
	w := new(JSONWriter)

	w.sink = sink

	return w
}

func (w *JSONWriter) Write(ctx context.Context, ugs *principal.UsersAndGroups) error {
	data, err := ugs.ToJSON()
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')

	_, err = w.sink.Write(out.Bytes())
	return err
}
