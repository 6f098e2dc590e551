package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ggoodman/wizard-go/schema"
	"gopkg.in/yaml.v3"
)

// Codec translates between an answer store and its stored byte form. Both
// directions must preserve every value's tag exactly: an int answer must
// come back as an int answer, never as a float or string.
type Codec interface {
	Encode(s *schema.Store) ([]byte, error)
	Decode(data []byte) (*schema.Store, error)
}

// entry is the tagged wire form of one answer. Exactly one payload field is
// set, matching the kind discriminator.
type entry struct {
	Kind string `json:"kind" yaml:"kind"`

	Str      *string   `json:"str,omitempty" yaml:"str,omitempty"`
	Int      *int64    `json:"int,omitempty" yaml:"int,omitempty"`
	Float    *float64  `json:"float,omitempty" yaml:"float,omitempty"`
	Bool     *bool     `json:"bool,omitempty" yaml:"bool,omitempty"`
	Variant  *int      `json:"variant,omitempty" yaml:"variant,omitempty"`
	Variants []int     `json:"variants,omitempty" yaml:"variants,omitempty"`
	Strs     []string  `json:"strs,omitempty" yaml:"strs,omitempty"`
	Ints     []int64   `json:"ints,omitempty" yaml:"ints,omitempty"`
	Floats   []float64 `json:"floats,omitempty" yaml:"floats,omitempty"`
}

func encodeEntries(s *schema.Store) (map[string]entry, error) {
	out := make(map[string]entry, s.Len())
	for _, p := range s.Paths() {
		v, _ := s.Get(p)
		e, err := encodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("store: entry %q: %w", p.String(), err)
		}
		out[p.String()] = e
	}
	return out, nil
}

func encodeValue(v schema.Value) (entry, error) {
	switch v.Kind() {
	case schema.ValueString:
		s, _ := v.AsString()
		return entry{Kind: "string", Str: &s}, nil
	case schema.ValueInt:
		n, _ := v.AsInt()
		return entry{Kind: "int", Int: &n}, nil
	case schema.ValueFloat:
		f, _ := v.AsFloat()
		return entry{Kind: "float", Float: &f}, nil
	case schema.ValueBool:
		b, _ := v.AsBool()
		return entry{Kind: "bool", Bool: &b}, nil
	case schema.ValueVariant:
		idx, _ := v.AsVariant()
		return entry{Kind: "variant", Variant: &idx}, nil
	case schema.ValueVariantSet:
		set, _ := v.AsVariantSet()
		return entry{Kind: "variant_set", Variants: set}, nil
	case schema.ValueStringList:
		vs, _ := v.AsStringList()
		return entry{Kind: "string_list", Strs: vs}, nil
	case schema.ValueIntList:
		vs, _ := v.AsIntList()
		return entry{Kind: "int_list", Ints: vs}, nil
	case schema.ValueFloatList:
		vs, _ := v.AsFloatList()
		return entry{Kind: "float_list", Floats: vs}, nil
	default:
		return entry{}, fmt.Errorf("invalid value")
	}
}

func decodeEntries(entries map[string]entry) (*schema.Store, error) {
	out := schema.NewStore()
	for key, e := range entries {
		v, err := decodeValue(e)
		if err != nil {
			return nil, fmt.Errorf("store: entry %q: %w", key, err)
		}
		out.Set(schema.ParsePath(key), v)
	}
	return out, nil
}

func decodeValue(e entry) (schema.Value, error) {
	switch e.Kind {
	case "string":
		if e.Str == nil {
			return schema.Value{}, fmt.Errorf("missing string payload")
		}
		return schema.NewString(*e.Str), nil
	case "int":
		if e.Int == nil {
			return schema.Value{}, fmt.Errorf("missing int payload")
		}
		return schema.NewInt(*e.Int), nil
	case "float":
		if e.Float == nil {
			return schema.Value{}, fmt.Errorf("missing float payload")
		}
		return schema.NewFloat(*e.Float), nil
	case "bool":
		if e.Bool == nil {
			return schema.Value{}, fmt.Errorf("missing bool payload")
		}
		return schema.NewBool(*e.Bool), nil
	case "variant":
		if e.Variant == nil {
			return schema.Value{}, fmt.Errorf("missing variant payload")
		}
		return schema.NewVariant(*e.Variant), nil
	case "variant_set":
		return schema.NewVariantSet(e.Variants...), nil
	case "string_list":
		return schema.NewStringList(e.Strs...), nil
	case "int_list":
		return schema.NewIntList(e.Ints...), nil
	case "float_list":
		return schema.NewFloatList(e.Floats...), nil
	default:
		return schema.Value{}, fmt.Errorf("unknown kind %q", e.Kind)
	}
}

// JSONCodec stores answers as a JSON object keyed by dotted path.
type JSONCodec struct{}

func (JSONCodec) Encode(s *schema.Store) ([]byte, error) {
	entries, err := encodeEntries(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(entries)
}

func (JSONCodec) Decode(data []byte) (*schema.Store, error) {
	var entries map[string]entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("store: decode: %w", err)
	}
	return decodeEntries(entries)
}

// YAMLCodec stores answers as a YAML mapping keyed by dotted path, for
// answer files meant to be read or edited by hand.
type YAMLCodec struct{}

func (YAMLCodec) Encode(s *schema.Store) ([]byte, error) {
	entries, err := encodeEntries(s)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(entries)
}

func (YAMLCodec) Decode(data []byte) (*schema.Store, error) {
	var entries map[string]entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("store: decode: %w", err)
	}
	return decodeEntries(entries)
}

// Save encodes and persists a store in one step.
func Save(ctx context.Context, h Host, c Codec, sessionID string, s *schema.Store) error {
	data, err := c.Encode(s)
	if err != nil {
		return err
	}
	return h.Save(ctx, sessionID, data)
}

// Load retrieves and decodes a store in one step.
func Load(ctx context.Context, h Host, c Codec, sessionID string) (*schema.Store, error) {
	data, err := h.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return c.Decode(data)
}
