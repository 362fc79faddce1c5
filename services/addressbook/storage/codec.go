// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

// ErrUnknownCodec is returned by CodecByName for an unsupported format.
var ErrUnknownCodec = errors.New("unknown codec")

// Codec turns values into bytes and back.
//
// Codecs are stateless and safe for concurrent use.
type Codec interface {
	// Name identifies the format, e.g. "yaml" or "json+zstd".
	Name() string

	// Marshal encodes v.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v, which must be a pointer.
	Unmarshal(data []byte, v any) error
}

// YAML encodes with gopkg.in/yaml.v3. It is the default file format: the
// stored book stays readable and hand-editable.
var YAML Codec = yamlCodec{}

// JSON encodes with encoding/json.
var JSON Codec = jsonCodec{}

type yamlCodec struct{}

func (yamlCodec) Name() string                       { return "yaml" }
func (yamlCodec) Marshal(v any) ([]byte, error)      { return yaml.Marshal(v) }
func (yamlCodec) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }

type jsonCodec struct{}

func (jsonCodec) Name() string                       { return "json" }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.MarshalIndent(v, "", "  ") }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Zstd wraps inner so its output is zstd compressed.
func Zstd(inner Codec) Codec {
	return zstdCodec{inner: inner}
}

// Shared encoder and decoder; both are safe for concurrent EncodeAll and
// DecodeAll calls.
var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

type zstdCodec struct {
	inner Codec
}

func (c zstdCodec) Name() string { return c.inner.Name() + "+zstd" }

func (c zstdCodec) Marshal(v any) ([]byte, error) {
	raw, err := c.inner.Marshal(v)
	if err != nil {
		return nil, err
	}
	return zstdEncoder.EncodeAll(raw, nil), nil
}

func (c zstdCodec) Unmarshal(data []byte, v any) error {
	raw, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return fmt.Errorf("zstd decode: %w", err)
	}
	return c.inner.Unmarshal(raw, v)
}

// CodecByName returns the codec for a configured format name.
//
// # Inputs
//
//   - name: "yaml", "json", or "" for yaml.
//   - compress: Wrap the codec with Zstd.
//
// # Outputs
//
//   - Codec: The codec.
//   - error: Wraps ErrUnknownCodec for any other name.
func CodecByName(name string, compress bool) (Codec, error) {
	var c Codec
	switch name {
	case "", "yaml":
		c = YAML
	case "json":
		c = JSON
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	if compress {
		c = Zstd(c)
	}
	return c, nil
}
