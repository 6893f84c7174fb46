package algorithms

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"dermoscopy-preprocessing/internal/core"
)

// base carries the metadata every algorithm shares and implements the
// descriptive half of Algorithm from it.
type base struct {
	name        string
	description string
	params      []ParameterInfo
}

func (b base) GetName() string        { return b.name }
func (b base) GetDescription() string { return b.description }

func (b base) GetParameterInfo() []ParameterInfo {
	out := make([]ParameterInfo, len(b.params))
	copy(out, b.params)
	return out
}

func (b base) GetDefaultParams() map[string]interface{} {
	defaults := make(map[string]interface{}, len(b.params))
	for _, p := range b.params {
		defaults[p.Name] = p.Default
	}
	return defaults
}

// Validate checks every known parameter against its ParameterInfo. Unknown
// keys are rejected so typos surface instead of silently using defaults.
func (b base) Validate(params map[string]interface{}) error {
	for key := range params {
		if _, ok := b.info(key); !ok {
			return fmt.Errorf("%w: unknown parameter %q", core.ErrInvalidParameter, key)
		}
	}

	for _, p := range b.params {
		val, ok := params[p.Name]
		if !ok {
			continue
		}
		if err := checkParameter(p, val); err != nil {
			return err
		}
	}
	return nil
}

func (b base) info(name string) (ParameterInfo, bool) {
	for _, p := range b.params {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterInfo{}, false
}

func checkParameter(p ParameterInfo, val interface{}) error {
	switch p.Type {
	case "int", "float":
		v, ok := val.(float64)
		if !ok || math.IsNaN(v) {
			return fmt.Errorf("%w: %s must be a number, got %v", core.ErrInvalidParameter, p.Name, val)
		}
		if p.Type == "int" && v != math.Trunc(v) {
			return fmt.Errorf("%w: %s must be an integer, got %v", core.ErrInvalidParameter, p.Name, v)
		}
		if lo, ok := p.Min.(float64); ok && v < lo {
			return fmt.Errorf("%w: %s must be between %v and %v", core.ErrInvalidParameter, p.Name, p.Min, p.Max)
		}
		if hi, ok := p.Max.(float64); ok && v > hi {
			return fmt.Errorf("%w: %s must be between %v and %v", core.ErrInvalidParameter, p.Name, p.Min, p.Max)
		}
	case "bool":
		if _, ok := val.(bool); !ok {
			return fmt.Errorf("%w: %s must be a boolean, got %v", core.ErrInvalidParameter, p.Name, val)
		}
	case "enum":
		s, ok := val.(string)
		if !ok {
			return fmt.Errorf("%w: %s must be a string, got %v", core.ErrInvalidParameter, p.Name, val)
		}
		for _, opt := range p.Options {
			if s == opt {
				return nil
			}
		}
		return fmt.Errorf("%w: %s must be one of %s", core.ErrInvalidParameter, p.Name, strings.Join(p.Options, ", "))
	case "string":
		if _, ok := val.(string); !ok {
			return fmt.Errorf("%w: %s must be a string, got %v", core.ErrInvalidParameter, p.Name, val)
		}
	}
	return nil
}

func floatParam(params map[string]interface{}, name string, def float64) float64 {
	if v, ok := params[name].(float64); ok {
		return v
	}
	return def
}

func intParam(params map[string]interface{}, name string, def int) int {
	if v, ok := params[name].(float64); ok {
		return int(v)
	}
	return def
}

func boolParam(params map[string]interface{}, name string, def bool) bool {
	if v, ok := params[name].(bool); ok {
		return v
	}
	return def
}

func stringParam(params map[string]interface{}, name string, def string) string {
	if v, ok := params[name].(string); ok {
		return v
	}
	return def
}

// ParseParam converts a textual value, as typed on a command line, into the
// representation Validate expects for p.
func ParseParam(p ParameterInfo, raw string) (interface{}, error) {
	switch p.Type {
	case "int", "float":
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", core.ErrInvalidParameter, p.Name, err)
		}
		return v, nil
	case "bool":
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", core.ErrInvalidParameter, p.Name, err)
		}
		return v, nil
	default:
		return raw, nil
	}
}

// ParseParams resolves key=value pairs against the parameters of algorithm.
func ParseParams(algorithm Algorithm, pairs []string) (map[string]interface{}, error) {
	params := make(map[string]interface{}, len(pairs))
	infos := algorithm.GetParameterInfo()

	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%w: parameter %q is not key=value", core.ErrInvalidParameter, pair)
		}

		var info *ParameterInfo
		for i := range infos {
			if infos[i].Name == key {
				info = &infos[i]
				break
			}
		}
		if info == nil {
			return nil, fmt.Errorf("%w: unknown parameter %q for %s", core.ErrInvalidParameter, key, algorithm.GetName())
		}

		v, err := ParseParam(*info, raw)
		if err != nil {
			return nil, err
		}
		params[key] = v
	}
	return params, nil
}
