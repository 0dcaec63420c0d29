package visual

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/matzehuels/algoflow/pkg/errors"
)

// Format identifies a document encoding.
type Format string

// Supported document formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the document format from a file extension.
// Anything other than .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// document is the union of the VisualState and legacy VizState shapes.
type document struct {
	Type        StructureType `json:"type"`
	Elements    []Element     `json:"elements"`
	Connections []Connection  `json:"connections"`
	Pointers    any           `json:"pointers"`
	Data        any           `json:"data"`
	Explanation string        `json:"explanation"`
}

// Step is one entry of an animation timeline.
type Step struct {
	State    *State `json:"viz"`
	CodeLine int    `json:"codeLine,omitempty"`
	Message  string `json:"message,omitempty"`
}

type rawStep struct {
	Viz      json.RawMessage `json:"viz"`
	CodeLine int             `json:"codeLine"`
	Message  string          `json:"message"`
}

// Decode reads a single structure description, normalizes it and
// validates its bounds.
func Decode(r io.Reader, format Format) (*State, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read document")
	}
	raw, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}
	return decodeState(raw)
}

// DecodeBytes is Decode over an in-memory document.
func DecodeBytes(data []byte, format Format) (*State, error) {
	return Decode(bytes.NewReader(data), format)
}

// ReadFile decodes the document at path, choosing the format by extension.
func ReadFile(path string) (*State, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return Decode(f, FormatFromPath(path))
}

// ReadTimeline decodes a list of animation steps. A document holding a
// single state, or an object with a "steps" list, is accepted too.
func ReadTimeline(r io.Reader, format Format) ([]Step, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read timeline")
	}
	raw, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var wrapper struct {
			Steps json.RawMessage `json:"steps"`
		}
		if err := json.Unmarshal(raw, &wrapper); err == nil && len(wrapper.Steps) > 0 {
			raw = wrapper.Steps
		} else {
			s, err := decodeState(raw)
			if err != nil {
				return nil, err
			}
			return []Step{{State: s}}, nil
		}
	}

	var rawSteps []rawStep
	if err := json.Unmarshal(raw, &rawSteps); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode timeline")
	}
	steps := make([]Step, 0, len(rawSteps))
	for i, rs := range rawSteps {
		if len(rs.Viz) == 0 {
			return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "step %d: missing viz", i)
		}
		s, err := decodeState(rs.Viz)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.GetCode(err), err, "step %d", i)
		}
		steps = append(steps, Step{State: s, CodeLine: rs.CodeLine, Message: rs.Message})
	}
	return steps, nil
}

// Encode writes s as indented JSON.
func Encode(w io.Writer, s *State) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func decodeState(raw []byte) (*State, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		if apperrors.GetCode(err) != "" {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode state")
	}
	if doc.Type == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidStructure, "missing structure type")
	}

	s := &State{
		Type:        doc.Type,
		Elements:    doc.Elements,
		Connections: doc.Connections,
		Explanation: doc.Explanation,
	}
	if s.Elements == nil && doc.Data != nil {
		s.Elements = legacyElements(doc.Type, doc.Data)
	}
	s.Pointers = decodePointers(doc.Pointers, s)
	if s.Elements == nil {
		s.Elements = []Element{}
	}

	s.Normalize()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// toJSON converts a YAML document to JSON so both formats share one
// decoding path.
func toJSON(data []byte, format Format) ([]byte, error) {
	if format != FormatYAML {
		return data, nil
	}
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode yaml")
	}
	out, err := json.Marshal(normalizeYAML(v))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "convert yaml")
	}
	return out, nil
}

// normalizeYAML rewrites map[any]any values, which encoding/json cannot
// marshal, into map[string]any.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeYAML(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = normalizeYAML(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = normalizeYAML(e)
		}
		return t
	default:
		return v
	}
}
