package geo

import (
	_ "embed"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed data/regions.yaml
var defaultRegions []byte

// tableFile is the on-disk YAML schema for the reference tables.
type tableFile struct {
	AreaCodes map[string]Region   `yaml:"area_codes"`
	States    map[string]Region   `yaml:"states"`
	Proximity map[string][]string `yaml:"proximity"`
	TollFree  []string            `yaml:"toll_free"`
	Premium   []string            `yaml:"premium"`
}

// Load reads the reference tables from the YAML file at path. An empty
// path loads the embedded default data set. The returned Table is
// immutable and safe for concurrent use.
func Load(path string) (*Table, error) {
	data := defaultRegions
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "geo: read regions file %s", path)
		}
		data = b
	}

	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, eris.Wrap(err, "geo: parse regions file")
	}

	t := &Table{
		byAreaCode:  make(map[string]Region, len(tf.AreaCodes)),
		byStateCode: make(map[string]Region, len(tf.States)),
		byStateName: make(map[string]Region, len(tf.States)),
		proximity:   make(map[string][]string, len(tf.Proximity)),
		tollFree:    make(map[string]struct{}, len(tf.TollFree)),
		premium:     make(map[string]struct{}, len(tf.Premium)),
	}

	for code, r := range tf.AreaCodes {
		code = strings.TrimSpace(code)
		if len(code) != 3 {
			return nil, eris.Errorf("geo: invalid area code key %q", code)
		}
		t.byAreaCode[code] = r
	}
	for code, r := range tf.States {
		if r.State == "" {
			r.State = code
		}
		t.byStateCode[strings.ToUpper(code)] = r
		if r.StateName != "" {
			t.byStateName[strings.ToLower(r.StateName)] = r
		}
	}
	for state, terms := range tf.Proximity {
		lowered := make([]string, 0, len(terms))
		for _, term := range terms {
			lowered = append(lowered, strings.ToLower(term))
		}
		t.proximity[strings.ToUpper(state)] = lowered
	}
	for _, code := range tf.TollFree {
		t.tollFree[code] = struct{}{}
	}
	for _, code := range tf.Premium {
		t.premium[code] = struct{}{}
	}

	zap.L().Debug("geo: reference tables loaded",
		zap.Int("area_codes", len(t.byAreaCode)),
		zap.Int("states", len(t.byStateCode)),
		zap.Int("proximity_lists", len(t.proximity)),
	)

	return t, nil
}
