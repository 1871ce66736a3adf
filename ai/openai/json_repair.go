// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package openai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/tupper/ai"
)

// repairJSON fixes two formatting slips small models make in JSON objects:
// a missing opening quote before a key (`, is_vegano": true`) and a trailing
// comma before the closing brace.
func repairJSON(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in)+8)
	inString := false

	for i := 0; i < len(in); i++ {
		ch := in[i]

		if inString {
			out = append(out, ch)
			if ch == '\\' && i+1 < len(in) {
				i++
				out = append(out, in[i])
			} else if ch == '"' {
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
			out = append(out, ch)
		case ',':
			// Drop a comma that only precedes the closing brace
			j := i + 1
			for j < len(in) && isSpace(in[j]) {
				j++
			}
			if j < len(in) && in[j] == '}' {
				continue
			}
			out = append(out, ch)
			out, i = quoteBareKey(in, out, j, i)
		case '{':
			out = append(out, ch)
			j := i + 1
			for j < len(in) && isSpace(in[j]) {
				j++
			}
			out, i = quoteBareKey(in, out, j, i)
		default:
			out = append(out, ch)
		}
	}

	return string(out)
}

// quoteBareKey inserts the missing opening quote when in[start:] reads like
// `key":`. It returns the output and the index of the last consumed rune.
func quoteBareKey(in, out []rune, start, last int) ([]rune, int) {
	if start >= len(in) || !isLetter(in[start]) {
		return out, last
	}
	end := start
	for end < len(in) && (isLetter(in[end]) || in[end] == '_') {
		end++
	}
	if end+1 < len(in) && in[end] == '"' && in[end+1] == ':' {
		out = append(out, in[last+1:start]...)
		out = append(out, '"')
		out = append(out, in[start:end+1]...)
		return out, end
	}
	return out, last
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}

// decodeObject parses exactly one JSON object from model output.
func decodeObject(text string) (map[string]any, error) {
	text = repairJSON(stripCodeFences(text))
	if !strings.HasPrefix(text, "{") {
		return nil, fmt.Errorf("%w: expected a JSON object", ai.ErrMalformedResponse)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after object", ai.ErrMalformedResponse)
	}
	if obj == nil {
		obj = map[string]any{}
	}
	return obj, nil
}
